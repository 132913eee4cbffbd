package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kuitang/outliner-e2e/internal/config"
	"github.com/kuitang/outliner-e2e/internal/errs"
	"github.com/kuitang/outliner-e2e/internal/outliner"
	"github.com/kuitang/outliner-e2e/internal/randutil"
	"github.com/kuitang/outliner-e2e/internal/scenario"
)

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, 2, run([]string{"--bogus"}, &stdout, &stderr))
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("E2E_BASE_URL", "")
	var stdout, stderr bytes.Buffer
	require.Equal(t, 2, run([]string{"--no-s3"}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "E2E_BASE_URL is required")
}

func TestRun_UnknownScenario(t *testing.T) {
	t.Setenv("E2E_BROWSER", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("E2E_ARTIFACTS_DIR", t.TempDir())
	var stdout, stderr bytes.Buffer
	require.Equal(t, 2, run([]string{"--local", "--scenarios", "create-page,teleport"}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "unknown scenarios: teleport")
}

func TestStartStub_ServesAndShutsDown(t *testing.T) {
	url, shutdown, err := startStub(context.Background())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://127.0.0.1:"))

	resp, err := http.Get(url + "healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "ok")

	shutdown()
	_, err = http.Get(url + "healthz")
	require.Error(t, err)
}

func TestSessionOptions(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		ActionTimeout:    2 * time.Second,
		DropdownTimeout:  3 * time.Second,
		GraphLoadTimeout: time.Minute,
	}
	require.Len(t, sessionOptions(cfg, randutil.New(1)), 2)

	cfg.ActionRate = 10
	cfg.ActionBurst = 2
	opts := sessionOptions(cfg, randutil.New(1))
	require.Len(t, opts, 3)

	s := outliner.New(nil, opts...)
	require.Equal(t, outliner.Timeouts{Action: 2 * time.Second, Dropdown: 3 * time.Second, GraphLoad: time.Minute, Title: 30 * time.Second}, s.Timeouts())
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	printSummary(&buf, "run-1", []scenario.Result{
		{Name: "create-page", Duration: 1500 * time.Millisecond},
		{
			Name:      "sidebar",
			Duration:  time.Second,
			Err:       errs.Wrap(errs.Timeout, "click #left-menu.button", errors.New("timeout 5000ms exceeded")),
			Artifacts: []string{"e2e-artifacts/run-1/sidebar.png"},
		},
	})

	out := buf.String()
	require.Contains(t, out, "PASS  create-page  1.5s")
	require.Contains(t, out, "FAIL  sidebar      1s")
	require.Contains(t, out, "click #left-menu.button: timeout 5000ms exceeded")
	require.Contains(t, out, "artifact: e2e-artifacts/run-1/sidebar.png")
	require.Contains(t, out, "1 passed, 1 failed (run-1)")
}
