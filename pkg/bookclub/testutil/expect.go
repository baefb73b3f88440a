package testutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod/lib/utils"
)

// PollInterval is how often expectations re-check the page.
const PollInterval = 50 * time.Millisecond

var (
	// ErrTimeout is wrapped by every expectation or wait that ran out of time.
	ErrTimeout = errors.New("timed out")
	// ErrNoPage is returned when a command runs before Visit.
	ErrNoPage = errors.New("no page open, call Visit first")
	// ErrUnknownAlias is returned when waiting on a route alias that was
	// never registered.
	ErrUnknownAlias = errors.New("unknown route alias")
)

// ExpectationError reports an expectation that never held. Last is the
// final observed value, for the failure message.
type ExpectationError struct {
	Step string
	Last string
	Err  error
}

func (e *ExpectationError) Error() string {
	if e.Last == "" {
		return fmt.Sprintf("%s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("%s: %v (last saw %s)", e.Step, e.Err, e.Last)
}

func (e *ExpectationError) Unwrap() error {
	return e.Err
}

// Check is one poll of an expectation. It returns whether the expectation
// holds and a description of what it saw. A non-nil error counts as "not
// yet" and is kept as the last observation.
type Check func() (ok bool, observed string, err error)

// Eventually polls check every interval until it holds, ctx is done or
// timeout elapses. The timeout error wraps ErrTimeout.
func Eventually(ctx context.Context, step string, timeout, interval time.Duration, check Check) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var last string
	err := utils.Retry(ctx, utils.BackoffSleeper(interval, interval, nil), func() (bool, error) {
		ok, observed, err := check()
		if ok && err == nil {
			return true, nil
		}
		if err != nil {
			last = err.Error()
		} else {
			last = observed
		}
		return false, nil
	})
	if err == nil {
		return nil
	}

	cause := ErrTimeout
	if errors.Is(err, context.Canceled) {
		cause = fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return &ExpectationError{Step: step, Last: last, Err: cause}
}
