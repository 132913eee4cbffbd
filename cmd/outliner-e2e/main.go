// Command outliner-e2e drives an outliner web app through end-to-end
// scenarios in a real browser and reports which passed.
//
// Usage:
//
//	outliner-e2e [--local] [--stub] [--no-s3] [--headed] [--scenarios a,b] [--graph DIR]
//
// The app under test is E2E_BASE_URL, or the built-in stub app with --stub.
// Failure screenshots and page HTML go to E2E_ARTIFACTS_DIR and, unless
// --no-s3 is set, to ARTIFACTS_BUCKET.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/kuitang/outliner-e2e/internal/artifacts"
	"github.com/kuitang/outliner-e2e/internal/browserenv"
	"github.com/kuitang/outliner-e2e/internal/config"
	"github.com/kuitang/outliner-e2e/internal/errs"
	"github.com/kuitang/outliner-e2e/internal/obs"
	"github.com/kuitang/outliner-e2e/internal/outliner"
	"github.com/kuitang/outliner-e2e/internal/randutil"
	"github.com/kuitang/outliner-e2e/internal/s3client"
	"github.com/kuitang/outliner-e2e/internal/scenario"
	"github.com/kuitang/outliner-e2e/internal/stubapp"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, err := config.ParseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return errs.ExitCode(errs.InvalidArgument)
	}
	cfg, err := config.LoadConfig(flags)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return errs.ExitCode(errs.InvalidArgument)
	}

	obs.Init(stderr, obs.Options{Level: obs.ParseLevel(cfg.LogLevel), Format: cfg.LogFormat})
	cfg.PrintStartupSummary(stderr)

	scenarios, err := scenario.Select(cfg.Scenarios)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return errs.ExitCode(errs.CodeOf(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runID := obs.NewRunID()
	ctx = obs.WithRun(ctx, runID)
	logger := obs.From(ctx).With("pkg", "main")
	logger.Info("config loaded", "config", cfg)

	baseURL := cfg.BaseURL
	if cfg.Stub {
		url, shutdown, err := startStub(ctx)
		if err != nil {
			logger.Error("stub app failed to start", "error", err)
			return errs.ExitCode(errs.CodeOf(err))
		}
		defer shutdown()
		baseURL = url
	}

	var uploader artifacts.Uploader
	if !cfg.NoS3 {
		client, err := s3client.New(ctx, s3client.Config{
			Endpoint:        cfg.AWSEndpointS3,
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			BucketName:      cfg.ArtifactsBucket,
			UsePathStyle:    cfg.AWSEndpointS3 != "",
		})
		if err != nil {
			logger.Error("artifact storage unavailable", "error", err)
			return errs.ExitCode(errs.Unavailable)
		}
		uploader = client
	}
	store := artifacts.New(cfg.ArtifactsDir, runID, uploader)

	env, err := browserenv.Launch(browserenv.Options{
		Browser:  cfg.Browser,
		Headless: cfg.Headless,
		SlowMo:   cfg.SlowMo,
	})
	if err != nil {
		logger.Error("browser launch failed", "error", err)
		return errs.ExitCode(errs.CodeOf(err))
	}
	defer func() {
		if err := env.Close(); err != nil {
			logger.Warn("browser shutdown failed", "error", err)
		}
	}()

	open := func(ctx context.Context) (*scenario.Target, error) {
		page, err := env.NewPage(baseURL, cfg.ActionTimeout)
		if err != nil {
			return nil, err
		}
		return &scenario.Target{
			Driver: outliner.NewPlaywrightDriver(page),
			Close:  func() error { return browserenv.ClosePage(page) },
		}, nil
	}
	rnd := randutil.New(cfg.Seed)
	runner := &scenario.Runner{
		Open:           open,
		Artifacts:      store,
		SessionOptions: sessionOptions(cfg, rnd),
		GraphDir:       cfg.GraphDir,
		Rand:           rnd,
	}

	logger.Info("run started", "scenarios", len(scenarios), "base_url", obs.RedactURL(baseURL), "seed", cfg.Seed)
	results := runner.Run(ctx, scenarios)
	printSummary(stdout, runID, results)

	failed := scenario.Failed(results)
	if len(failed) == 0 {
		return 0
	}
	return errs.ExitCode(errs.CodeOf(failed[0].Err))
}

func sessionOptions(cfg *config.Config, rnd *randutil.Rand) []outliner.Option {
	opts := []outliner.Option{
		outliner.WithTimeouts(outliner.Timeouts{
			Action:    cfg.ActionTimeout,
			Dropdown:  cfg.DropdownTimeout,
			GraphLoad: cfg.GraphLoadTimeout,
		}),
		outliner.WithRand(rnd),
	}
	if cfg.ActionRate > 0 {
		opts = append(opts, outliner.WithPacing(rate.NewLimiter(rate.Limit(cfg.ActionRate), cfg.ActionBurst)))
	}
	return opts
}

// startStub serves the stub app on a loopback port and returns its URL.
func startStub(ctx context.Context) (string, func(), error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, errs.Wrap(errs.Unavailable, "listen for stub app", err)
	}
	srv := &http.Server{
		Handler:           stubapp.New(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	logger := obs.From(ctx).With("pkg", "main")
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("stub app stopped", "error", err)
		}
	}()

	url := "http://" + ln.Addr().String() + "/"
	logger.Info("stub app listening", "url", url)
	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("stub app shutdown failed", "error", err)
		}
	}
	return url, shutdown, nil
}

func printSummary(w io.Writer, runID string, results []scenario.Result) {
	width := 0
	for _, r := range results {
		width = max(width, len(r.Name))
	}

	passed := 0
	fmt.Fprintln(w, "")
	for _, r := range results {
		status := "PASS"
		if r.Passed() {
			passed++
		} else {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s  %-*s  %s\n", status, width, r.Name, r.Duration.Round(time.Millisecond))
		if r.Err != nil {
			fmt.Fprintf(w, "      %v\n", r.Err)
		}
		for _, p := range r.Artifacts {
			fmt.Fprintf(w, "      artifact: %s\n", p)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed (%s)\n", passed, len(results)-passed, runID)
}
