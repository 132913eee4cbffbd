// Package browserenv starts Playwright, launches a browser and opens pages
// on the app under test.
package browserenv

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/outliner-e2e/internal/errs"
	"github.com/kuitang/outliner-e2e/internal/obs"
)

// Browsers lists the supported browser engines.
var Browsers = []string{"chromium", "firefox", "webkit"}

// Options configure the launched browser.
type Options struct {
	// Browser is one of Browsers. Empty means chromium.
	Browser  string
	Headless bool
	// SlowMo delays every browser operation, useful when watching a headed run.
	SlowMo time.Duration
}

// Env is a running Playwright driver with one launched browser.
type Env struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
}

// BrowserType returns the playwright engine for name.
func BrowserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "chromium", "chrome":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit", "safari":
		return pw.WebKit, nil
	default:
		return nil, errs.New(errs.InvalidArgument, fmt.Sprintf("unknown browser %q (want one of %s)", name, strings.Join(Browsers, ", ")))
	}
}

// Launch starts Playwright and launches the configured browser.
func Launch(opts Options) (*Env, error) {
	logger := obs.Pkg("browserenv")

	pw, err := playwright.Run()
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "start playwright", err)
	}

	bt, err := BrowserType(pw, opts.Browser)
	if err != nil {
		_ = pw.Stop()
		return nil, err
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.SlowMo > 0 {
		launch.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
	}
	browser, err := bt.Launch(launch)
	if err != nil {
		_ = pw.Stop()
		return nil, errs.Wrap(errs.Unavailable, "launch "+bt.Name(), err)
	}

	logger.Info("browser launched", "browser", bt.Name(), "version", browser.Version(), "headless", opts.Headless)
	return &Env{pw: pw, browser: browser, opts: opts}, nil
}

// NewPage opens baseURL in a fresh browser context. timeout becomes the
// default for actions and navigation on the page.
func (e *Env) NewPage(baseURL string, timeout time.Duration) (playwright.Page, error) {
	bctx, err := e.browser.NewContext(playwright.BrowserNewContextOptions{
		BaseURL: playwright.String(baseURL),
	})
	if err != nil {
		return nil, errs.Wrap(errs.Internal, "new browser context", err)
	}
	ms := float64(timeout.Milliseconds())
	bctx.SetDefaultTimeout(ms)
	bctx.SetDefaultNavigationTimeout(ms)

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, errs.Wrap(errs.Internal, "new page", err)
	}

	if _, err := page.Goto(baseURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		_ = bctx.Close()
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, errs.Wrap(errs.Timeout, "open "+baseURL, err)
		}
		return nil, errs.Wrap(errs.Unavailable, "open "+baseURL, err)
	}
	return page, nil
}

// ClosePage closes the page and its browser context.
func ClosePage(page playwright.Page) error {
	if page == nil {
		return nil
	}
	return page.Context().Close()
}

// Close closes the browser and stops Playwright.
func (e *Env) Close() error {
	var errList []error
	if e.browser != nil {
		if err := e.browser.Close(); err != nil {
			errList = append(errList, fmt.Errorf("close browser: %w", err))
		}
	}
	if e.pw != nil {
		if err := e.pw.Stop(); err != nil {
			errList = append(errList, fmt.Errorf("stop playwright: %w", err))
		}
	}
	return errors.Join(errList...)
}
