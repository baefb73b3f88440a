package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/StacyCash/bookclub-e2e/internal/logging"
	"github.com/StacyCash/bookclub-e2e/pkg/bookclub/internal"
)

// OpenFunc opens a fresh page for one scenario. The page should abandon
// pending waits once ctx is done.
type OpenFunc func(ctx context.Context) (Page, error)

// Result is the outcome of one scenario.
type Result struct {
	Name     string
	Started  time.Time
	Duration time.Duration
	Err      error
}

// Passed reports whether the scenario succeeded.
func (r Result) Passed() bool {
	return r.Err == nil
}

// Report collects the results of one Runner.Run.
type Report struct {
	RunID   string
	Results []Result
}

// Failed returns the failing results.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed() {
			out = append(out, res)
		}
	}
	return out
}

// Passed reports whether every scenario succeeded.
func (r *Report) Passed() bool {
	return len(r.Failed()) == 0
}

// Summary renders one line per scenario plus a totals line.
func (r *Report) Summary() string {
	var b strings.Builder
	for _, res := range r.Results {
		status := "PASS"
		if !res.Passed() {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "%s  %-40s %8s", status, res.Name, res.Duration.Round(time.Millisecond))
		if res.Err != nil {
			fmt.Fprintf(&b, "  %v", res.Err)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d passed, %d failed (run %s)\n",
		len(r.Results)-len(r.Failed()), len(r.Failed()), r.RunID)
	return b.String()
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithClock replaces the clock used for timings.
func WithClock(c internal.Clock) RunnerOption {
	return func(r *Runner) {
		r.clock = c
	}
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) RunnerOption {
	return func(r *Runner) {
		r.runID = id
	}
}

// Runner executes scenarios sequentially, each in its own page.
type Runner struct {
	open   OpenFunc
	env    Env
	logger *log.Logger
	clock  internal.Clock
	runID  string
}

// NewRunner creates a Runner that opens pages with open and hands every
// scenario env.
func NewRunner(open OpenFunc, env Env, opts ...RunnerOption) *Runner {
	r := &Runner{
		open:   open,
		env:    env,
		logger: logging.Discard(),
		clock:  internal.SystemClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	return r
}

// Run executes scenarios in order. A failing scenario does not stop the
// rest. Canceling ctx aborts the scenario in flight and reports it, along
// with every scenario not yet started, as failed with ctx's error.
func (r *Runner) Run(ctx context.Context, scenarios ...Scenario) (*Report, error) {
	if err := r.env.Validate(); err != nil {
		return nil, err
	}

	logger := r.logger.With("run", r.runID)
	report := &Report{RunID: r.runID}
	for _, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			report.Results = append(report.Results, Result{Name: sc.Name, Started: r.clock.Now(), Err: err})
			continue
		}
		res := r.runOne(ctx, sc, logger)
		report.Results = append(report.Results, res)
	}
	return report, nil
}

func (r *Runner) runOne(ctx context.Context, sc Scenario, logger *log.Logger) Result {
	logger = logger.With("scenario", sc.Name)
	started := r.clock.Now()
	logger.Info("scenario started")

	err := r.execute(ctx, sc)
	if ctxErr := ctx.Err(); ctxErr != nil && err != nil && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}

	res := Result{
		Name:     sc.Name,
		Started:  started,
		Duration: r.clock.Now().Sub(started),
		Err:      err,
	}
	if err != nil {
		logger.Error("scenario failed", "duration", res.Duration, "err", err)
	} else {
		logger.Info("scenario passed", "duration", res.Duration)
	}
	return res
}

func (r *Runner) execute(ctx context.Context, sc Scenario) (err error) {
	page, err := r.open(ctx)
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close page: %w", cerr)
		}
	}()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("scenario panicked: %v", p)
		}
	}()
	return sc.Run(page, r.env)
}
