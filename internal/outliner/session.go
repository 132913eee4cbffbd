// Package outliner drives an outliner note-taking web app through a
// browser page: creating and finding pages, editing blocks, switching
// between the block and code editors, and loading local graph folders.
//
// Each helper is a short fixed sequence of UI actions and waits. Failures
// come back as coded errors (see internal/errs) naming the step that failed.
package outliner

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/time/rate"

	"github.com/kuitang/outliner-e2e/internal/errs"
	"github.com/kuitang/outliner-e2e/internal/obs"
	"github.com/kuitang/outliner-e2e/internal/randutil"
)

// Settle delays between steps, matching the app's animation and debounce times.
const (
	settleTick       = 10 * time.Millisecond
	settleEditor     = 100 * time.Millisecond
	settleCodeMirror = 300 * time.Millisecond
	settleActivate   = 500 * time.Millisecond
)

// RandomTitleLength is the length of titles made by CreateRandomPage.
const RandomTitleLength = 20

// Timeouts bound the waits a Session performs.
type Timeouts struct {
	// Action bounds clicks, fills, presses and ordinary waits.
	Action time.Duration
	// Dropdown bounds waits for menus and dialogs opened while adding a graph.
	Dropdown time.Duration
	// GraphLoad bounds the wait for a graph folder to finish parsing.
	GraphLoad time.Duration
	// Title bounds the wait for the document title after a graph loads.
	Title time.Duration
}

// DefaultTimeouts returns the timeouts used when none are configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Action:    5 * time.Second,
		Dropdown:  5 * time.Second,
		GraphLoad: 5 * time.Minute,
		Title:     30 * time.Second,
	}
}

// Session drives one browser page.
type Session struct {
	d             Driver
	timeouts      Timeouts
	pacer         *rate.Limiter
	rnd           *randutil.Rand
	expectedTitle string
}

// Option configures a Session.
type Option func(*Session)

// WithTimeouts overrides the default timeouts. Zero fields keep their defaults.
func WithTimeouts(t Timeouts) Option {
	return func(s *Session) {
		if t.Action > 0 {
			s.timeouts.Action = t.Action
		}
		if t.Dropdown > 0 {
			s.timeouts.Dropdown = t.Dropdown
		}
		if t.GraphLoad > 0 {
			s.timeouts.GraphLoad = t.GraphLoad
		}
		if t.Title > 0 {
			s.timeouts.Title = t.Title
		}
	}
}

// WithPacing makes every UI action wait for a token from limiter.
func WithPacing(limiter *rate.Limiter) Option {
	return func(s *Session) { s.pacer = limiter }
}

// WithRand sets the source for random page titles.
func WithRand(rnd *randutil.Rand) Option {
	return func(s *Session) { s.rnd = rnd }
}

// WithExpectedTitle sets the document title that marks a loaded graph.
func WithExpectedTitle(title string) Option {
	return func(s *Session) { s.expectedTitle = title }
}

// New returns a Session driving d.
func New(d Driver, opts ...Option) *Session {
	s := &Session{
		d:             d,
		timeouts:      DefaultTimeouts(),
		expectedTitle: DefaultExpectedTitle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ForPage returns a Session driving a playwright page.
func ForPage(page playwright.Page, opts ...Option) *Session {
	return New(NewPlaywrightDriver(page), opts...)
}

// Driver returns the session's driver.
func (s *Session) Driver() Driver {
	return s.d
}

// Timeouts returns the effective timeouts.
func (s *Session) Timeouts() Timeouts {
	return s.timeouts
}

func (s *Session) randomString(n int) string {
	if s.rnd != nil {
		return s.rnd.String(n)
	}
	return randutil.RandomString(n)
}

// step runs one UI action after checking ctx and waiting for pacing.
func (s *Session) step(ctx context.Context, action, selector string, fn func() error) error {
	name := strings.TrimSpace(action + " " + selector)
	if err := ctx.Err(); err != nil {
		return errs.FromContext(name, err)
	}
	if s.pacer != nil {
		if err := s.pacer.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return errs.FromContext(name, ctx.Err())
			}
			// the limiter refuses waits that would outlive the deadline
			return errs.Wrap(errs.Timeout, name, err)
		}
	}
	obs.From(ctx).Debug("ui step", "pkg", "outliner", "action", action, "selector", selector)
	if err := fn(); err != nil {
		return stepError(name, err)
	}
	return nil
}

func stepError(name string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return errs.Wrap(errs.Timeout, name, err)
	}
	return errs.Wrap(errs.Internal, name, err)
}

func (s *Session) click(ctx context.Context, selector string) error {
	return s.step(ctx, "click", selector, func() error {
		return s.d.Click(selector, s.timeouts.Action)
	})
}

func (s *Session) fill(ctx context.Context, selector, value string) error {
	return s.step(ctx, "fill", selector, func() error {
		return s.d.Fill(selector, value, s.timeouts.Action)
	})
}

func (s *Session) press(ctx context.Context, selector, key string) error {
	return s.step(ctx, "press "+key, selector, func() error {
		return s.d.Press(selector, key, s.timeouts.Action)
	})
}

func (s *Session) keyboard(ctx context.Context, key string) error {
	return s.step(ctx, "keyboard", key, func() error {
		return s.d.KeyboardPress(key)
	})
}

func (s *Session) waitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return s.step(ctx, "wait visible", selector, func() error {
		return s.d.WaitVisible(selector, timeout)
	})
}

func (s *Session) waitHidden(ctx context.Context, selector string, timeout time.Duration) error {
	return s.step(ctx, "wait hidden", selector, func() error {
		return s.d.WaitHidden(selector, timeout)
	})
}

// sleep pauses for a fixed settle delay. It checks ctx before sleeping.
func (s *Session) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return errs.FromContext("sleep", err)
	}
	s.d.Sleep(d)
	return nil
}

func (s *Session) count(ctx context.Context, selector string) (int, error) {
	var n int
	err := s.step(ctx, "count", selector, func() error {
		var err error
		n, err = s.d.Count(selector)
		return err
	})
	return n, err
}

func (s *Session) isVisible(ctx context.Context, selector string) (bool, error) {
	var visible bool
	err := s.step(ctx, "is visible", selector, func() error {
		var err error
		visible, err = s.d.IsVisible(selector)
		return err
	})
	return visible, err
}

func (s *Session) title(ctx context.Context) (string, error) {
	var title string
	err := s.step(ctx, "title", "", func() error {
		var err error
		title, err = s.d.Title()
		return err
	})
	return title, err
}
