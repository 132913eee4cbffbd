package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kuitang/outliner-e2e/internal/artifacts"
	"github.com/kuitang/outliner-e2e/internal/errs"
	"github.com/kuitang/outliner-e2e/internal/obs"
	"github.com/kuitang/outliner-e2e/internal/outliner"
	"github.com/kuitang/outliner-e2e/internal/randutil"
)

// Target is a freshly opened page of the app under test.
type Target struct {
	Driver outliner.Driver
	// Close releases the page. It may be nil.
	Close func() error
}

// Opener opens a new Target for each scenario.
type Opener func(ctx context.Context) (*Target, error)

// Result is the outcome of one scenario.
type Result struct {
	Name      string
	Duration  time.Duration
	Err       error
	Artifacts []string
}

// Passed reports whether the scenario succeeded.
func (r Result) Passed() bool {
	return r.Err == nil
}

// Runner executes scenarios one at a time, each on its own page.
type Runner struct {
	Open Opener
	// Artifacts receives failure captures. It may be nil.
	Artifacts *artifacts.Store
	// SessionOptions apply to every scenario's outliner session.
	SessionOptions []outliner.Option
	GraphDir       string
	Rand           *randutil.Rand
	// Timeout bounds each scenario. Zero means no bound beyond ctx.
	Timeout time.Duration
}

// Run executes scenarios in order and returns one Result each. It keeps
// going after failures; a canceled ctx fails the remaining scenarios.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		results = append(results, r.runOne(ctx, s))
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, s Scenario) Result {
	ctx = obs.WithScenario(ctx, s.Name)
	logger := obs.From(ctx).With("pkg", "scenario")
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	res := Result{Name: s.Name}
	start := time.Now()
	logger.Info("scenario started")

	target, err := r.open(ctx)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		logger.Error("scenario failed", "stage", "open", "code", string(errs.CodeOf(err)), "error", err)
		return res
	}
	defer func() {
		if target.Close == nil {
			return
		}
		if err := target.Close(); err != nil {
			logger.Warn("close page failed", "error", err)
		}
	}()

	rnd := r.Rand
	if rnd == nil {
		rnd = randutil.New(uint64(time.Now().UnixNano()))
	}
	env := &Env{
		Session:  outliner.New(target.Driver, r.SessionOptions...),
		GraphDir: r.GraphDir,
		Rand:     rnd,
	}

	res.Err = runSafely(ctx, s, env)
	res.Duration = time.Since(start)
	durMS := float64(res.Duration.Microseconds()) / 1000.0

	if res.Err == nil {
		logger.Info("scenario passed", "dur_ms", durMS)
		return res
	}

	logger.Error("scenario failed", "dur_ms", durMS, "code", string(errs.CodeOf(res.Err)), "error", res.Err)
	if r.Artifacts != nil {
		// capture with a fresh deadline so a timed-out scenario still gets artifacts
		captureCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		paths, err := r.Artifacts.Capture(captureCtx, s.Name, target.Driver, res.Err)
		res.Artifacts = paths
		if err != nil {
			logger.Warn("artifact capture incomplete", "error", err)
		}
	}
	return res
}

func (r *Runner) open(ctx context.Context) (*Target, error) {
	if r.Open == nil {
		return nil, errs.New(errs.FailedPrecondition, "runner has no page opener")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.FromContext("open page", err)
	}
	target, err := r.Open(ctx)
	if err != nil {
		return nil, err
	}
	if target == nil || target.Driver == nil {
		return nil, errs.New(errs.Internal, "page opener returned no driver")
	}
	return target, nil
}

// runSafely turns a panicking scenario into an internal error.
func runSafely(ctx context.Context, s Scenario, env *Env) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errs.New(errs.Internal, fmt.Sprintf("scenario %s panicked: %v", s.Name, p))
		}
	}()
	return s.Run(ctx, env)
}

// Failed returns the failed results.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Err joins the errors of all failed results, each prefixed with the
// scenario name. It is nil when every scenario passed.
func Err(results []Result) error {
	var errList []error
	for _, r := range Failed(results) {
		errList = append(errList, fmt.Errorf("%s: %w", r.Name, r.Err))
	}
	return errors.Join(errList...)
}
