// Package internal provides internal utilities for the bookclub packages.
package internal

import "time"

// Clock supplies the current time to the scenario runner so report
// timings can be asserted in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a Clock that only moves when told to. It is not safe for
// concurrent use.
type ManualClock struct {
	current time.Time
}

// NewManualClock returns a ManualClock set to t, or to a fixed epoch when t
// is zero.
func NewManualClock(t time.Time) *ManualClock {
	if t.IsZero() {
		t = time.Unix(1000000000, 0)
	}
	return &ManualClock{current: t}
}

// Now returns the clock's current time.
func (m *ManualClock) Now() time.Time {
	return m.current
}

// Advance moves the clock forward by d. Panics if d is negative.
func (m *ManualClock) Advance(d time.Duration) {
	if d < 0 {
		panic("ManualClock.Advance: duration must be non-negative")
	}
	m.current = m.current.Add(d)
}
