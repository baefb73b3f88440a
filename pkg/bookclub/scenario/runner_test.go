package scenario

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StacyCash/bookclub-e2e/pkg/bookclub/internal"
	"github.com/StacyCash/bookclub-e2e/pkg/bookclub/testutil"
)

func TestRunner_RunsEachScenarioInFreshPage(t *testing.T) {
	var pages []*fakePage
	open := func(context.Context) (Page, error) {
		p := newFakePage()
		pages = append(pages, p)
		return p, nil
	}

	r := NewRunner(open, testEnv(), WithRunID("run-1"))
	report, err := r.Run(context.Background(), All()...)
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	require.Len(t, report.Results, 3)
	assert.True(t, report.Passed(), report.Summary())
	require.Len(t, pages, 3)
	for _, p := range pages {
		assert.True(t, p.closed)
		assert.Equal(t, "visit http://localhost:8080/", p.steps[0])
	}
}

func TestRunner_FailureDoesNotStopRun(t *testing.T) {
	calls := 0
	open := func(context.Context) (Page, error) {
		calls++
		p := newFakePage()
		if calls == 2 {
			p.dropSubmit = true
		}
		return p, nil
	}

	report, err := NewRunner(open, testEnv()).Run(context.Background(), All()...)
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.False(t, report.Passed())

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "sign-up/submits-and-shows-feedback", failed[0].Name)
	assert.True(t, report.Results[2].Passed())
	assert.Contains(t, report.Summary(), "2 passed, 1 failed")
}

func TestRunner_OpenError(t *testing.T) {
	open := func(context.Context) (Page, error) { return nil, errOpen }

	report, err := NewRunner(open, testEnv()).Run(context.Background(), All()[0])
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.ErrorIs(t, report.Results[0].Err, errOpen)
}

func TestRunner_CloseErrorFailsScenario(t *testing.T) {
	closeErr := errors.New("target closed")
	open := func(context.Context) (Page, error) {
		p := newFakePage()
		p.failClose = closeErr
		return p, nil
	}

	report, err := NewRunner(open, testEnv()).Run(context.Background(), All()[2])
	require.NoError(t, err)
	assert.ErrorIs(t, report.Results[0].Err, closeErr)
}

func TestRunner_RecoversPanic(t *testing.T) {
	var page *fakePage
	open := func(context.Context) (Page, error) {
		page = newFakePage()
		page.panicOn = "link-to-booklist"
		return page, nil
	}

	report, err := NewRunner(open, testEnv()).Run(context.Background(), All()[2])
	require.NoError(t, err)
	assert.ErrorContains(t, report.Results[0].Err, "panicked")
	assert.True(t, page.closed)
}

func TestRunner_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opened := 0
	open := func(context.Context) (Page, error) {
		opened++
		return newFakePage(), nil
	}
	report, err := NewRunner(open, testEnv()).Run(ctx, All()...)
	require.NoError(t, err)
	assert.Zero(t, opened)
	for _, res := range report.Results {
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
}

func TestRunner_CancelAbortsScenarioInFlight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opened := 0
	open := func(ctx context.Context) (Page, error) {
		opened++
		p := newFakePage()
		p.ctx = ctx
		p.onWait = cancel
		return p, nil
	}

	var (
		report *Report
		err    error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		report, err = NewRunner(open, testEnv()).Run(ctx, All()[1:]...)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run kept going after cancel")
	}

	require.NoError(t, err)
	assert.Equal(t, 1, opened)
	require.Len(t, report.Results, 2)
	assert.ErrorIs(t, report.Results[0].Err, testutil.ErrTimeout)
	for _, res := range report.Results {
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
}

func TestRunner_InvalidEnv(t *testing.T) {
	env := testEnv()
	env.BaseURL = ""
	_, err := NewRunner(func(context.Context) (Page, error) { return newFakePage(), nil }, env).Run(context.Background())
	assert.Error(t, err)
}

func TestRunner_Timings(t *testing.T) {
	clock := internal.NewManualClock(time.Time{})
	open := func(context.Context) (Page, error) {
		clock.Advance(250 * time.Millisecond)
		return newFakePage(), nil
	}

	report, err := NewRunner(open, testEnv(), WithClock(clock)).Run(context.Background(), All()[2])
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, report.Results[0].Duration)
	assert.Equal(t, time.Unix(1000000000, 0), report.Results[0].Started)
}

func TestRunner_GeneratesRunID(t *testing.T) {
	r1 := NewRunner(nil, testEnv())
	r2 := NewRunner(nil, testEnv())
	assert.NotEmpty(t, r1.runID)
	assert.NotEqual(t, r1.runID, r2.runID)
}
