// Package browser runs the outliner helpers and scenarios in a real browser
// against the stub app. Tests skip in -short mode or when Playwright is
// not installed.
package browser

import (
	"context"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/outliner-e2e/internal/browserenv"
	"github.com/kuitang/outliner-e2e/internal/outliner"
	"github.com/kuitang/outliner-e2e/internal/randutil"
	"github.com/kuitang/outliner-e2e/internal/scenario"
	"github.com/kuitang/outliner-e2e/internal/stubapp"
)

const (
	// Always use these timeouts in browser tests.
	browserMaxTimeout = 5 * time.Second
	graphLoadTimeout  = 30 * time.Second
)

var (
	browserMu     sync.Mutex
	sharedBrowser *browserenv.Env
	launchErr     error
)

// BrowserTestEnv is one stub app server plus the shared browser.
type BrowserTestEnv struct {
	Browser *browserenv.Env
	BaseURL string
}

// SetupBrowserTestEnv starts a stub app for the test and returns it with
// the shared browser, launching the browser on first use.
func SetupBrowserTestEnv(t *testing.T) *BrowserTestEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	browserMu.Lock()
	if sharedBrowser == nil && launchErr == nil {
		sharedBrowser, launchErr = browserenv.Launch(browserenv.Options{Headless: true})
	}
	env, err := sharedBrowser, launchErr
	browserMu.Unlock()
	if err != nil {
		t.Skip("Playwright not available:", err)
	}

	srv := httptest.NewServer(stubapp.New())
	t.Cleanup(srv.Close)
	return &BrowserTestEnv{Browser: env, BaseURL: srv.URL + "/"}
}

// NewPage opens path on the stub app in a fresh context.
func (env *BrowserTestEnv) NewPage(t *testing.T, path string) playwright.Page {
	t.Helper()
	page, err := env.Browser.NewPage(env.BaseURL+path, browserMaxTimeout)
	if err != nil {
		t.Fatalf("could not open %s: %v", env.BaseURL+path, err)
	}
	t.Cleanup(func() { _ = browserenv.ClosePage(page) })
	return page
}

// NewSession opens the app root and wraps the page in an outliner session.
func (env *BrowserTestEnv) NewSession(t *testing.T, opts ...outliner.Option) *outliner.Session {
	t.Helper()
	return env.NewSessionAt(t, "", opts...)
}

// NewSessionAt is NewSession for a path such as "?onboarding=1".
func (env *BrowserTestEnv) NewSessionAt(t *testing.T, path string, opts ...outliner.Option) *outliner.Session {
	t.Helper()
	base := []outliner.Option{
		outliner.WithTimeouts(outliner.Timeouts{
			Action:    browserMaxTimeout,
			Dropdown:  browserMaxTimeout,
			GraphLoad: graphLoadTimeout,
		}),
		outliner.WithRand(randutil.New(uint64(time.Now().UnixNano()))),
	}
	return outliner.ForPage(env.NewPage(t, path), append(base, opts...)...)
}

// Opener returns a scenario.Opener for the stub app.
func (env *BrowserTestEnv) Opener() scenario.Opener {
	return func(ctx context.Context) (*scenario.Target, error) {
		page, err := env.Browser.NewPage(env.BaseURL, browserMaxTimeout)
		if err != nil {
			return nil, err
		}
		return &scenario.Target{
			Driver: outliner.NewPlaywrightDriver(page),
			Close:  func() error { return browserenv.ClosePage(page) },
		}, nil
	}
}

func TestMain(m *testing.M) {
	code := m.Run()
	browserMu.Lock()
	if sharedBrowser != nil {
		_ = sharedBrowser.Close()
	}
	browserMu.Unlock()
	os.Exit(code)
}
