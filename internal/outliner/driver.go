package outliner

import (
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Driver is the set of page operations the helpers are built from.
// Selectors use Playwright syntax.
type Driver interface {
	Click(selector string, timeout time.Duration) error
	Fill(selector, value string, timeout time.Duration) error
	Press(selector, key string, timeout time.Duration) error
	Type(selector, text string, timeout time.Duration) error
	KeyboardPress(key string) error

	WaitVisible(selector string, timeout time.Duration) error
	WaitHidden(selector string, timeout time.Duration) error
	ExpectClass(selector string, pattern *regexp.Regexp, timeout time.Duration) error
	WaitForFunction(expression string, timeout time.Duration) error
	Sleep(d time.Duration)

	Count(selector string) (int, error)
	IsVisible(selector string) (bool, error)
	Attribute(selector, name string, timeout time.Duration) (string, error)
	InnerHTML(selector string, timeout time.Duration) (string, error)
	InputValue(selector string, timeout time.Duration) (string, error)
	Evaluate(expression string, arg any) (any, error)

	Title() (string, error)
	URL() string
	Content() (string, error)
	Screenshot() ([]byte, error)
}

// PlaywrightDriver implements Driver on a playwright-go page.
type PlaywrightDriver struct {
	page playwright.Page
}

// NewPlaywrightDriver wraps page.
func NewPlaywrightDriver(page playwright.Page) *PlaywrightDriver {
	return &PlaywrightDriver{page: page}
}

// Page returns the underlying playwright page.
func (d *PlaywrightDriver) Page() playwright.Page {
	return d.page
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

func (d *PlaywrightDriver) Click(selector string, timeout time.Duration) error {
	return d.page.Click(selector, playwright.PageClickOptions{Timeout: ms(timeout)})
}

func (d *PlaywrightDriver) Fill(selector, value string, timeout time.Duration) error {
	return d.page.Fill(selector, value, playwright.PageFillOptions{Timeout: ms(timeout)})
}

func (d *PlaywrightDriver) Press(selector, key string, timeout time.Duration) error {
	return d.page.Press(selector, key, playwright.PagePressOptions{Timeout: ms(timeout)})
}

func (d *PlaywrightDriver) Type(selector, text string, timeout time.Duration) error {
	return d.page.Locator(selector).PressSequentially(text, playwright.LocatorPressSequentiallyOptions{Timeout: ms(timeout)})
}

func (d *PlaywrightDriver) KeyboardPress(key string) error {
	return d.page.Keyboard().Press(key)
}

func (d *PlaywrightDriver) WaitVisible(selector string, timeout time.Duration) error {
	_, err := d.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	})
	return err
}

func (d *PlaywrightDriver) WaitHidden(selector string, timeout time.Duration) error {
	_, err := d.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: ms(timeout),
	})
	return err
}

func (d *PlaywrightDriver) ExpectClass(selector string, pattern *regexp.Regexp, timeout time.Duration) error {
	return playwright.NewPlaywrightAssertions().
		Locator(d.page.Locator(selector)).
		ToHaveClass(pattern, playwright.LocatorAssertionsToHaveClassOptions{Timeout: ms(timeout)})
}

func (d *PlaywrightDriver) WaitForFunction(expression string, timeout time.Duration) error {
	_, err := d.page.WaitForFunction(expression, nil, playwright.PageWaitForFunctionOptions{
		Timeout: ms(timeout),
	})
	return err
}

func (d *PlaywrightDriver) Sleep(dur time.Duration) {
	d.page.WaitForTimeout(float64(dur.Milliseconds()))
}

func (d *PlaywrightDriver) Count(selector string) (int, error) {
	return d.page.Locator(selector).Count()
}

func (d *PlaywrightDriver) IsVisible(selector string) (bool, error) {
	return d.page.Locator(selector).First().IsVisible()
}

func (d *PlaywrightDriver) Attribute(selector, name string, timeout time.Duration) (string, error) {
	return d.page.Locator(selector).First().GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: ms(timeout)})
}

func (d *PlaywrightDriver) InnerHTML(selector string, timeout time.Duration) (string, error) {
	return d.page.Locator(selector).InnerHTML(playwright.LocatorInnerHTMLOptions{Timeout: ms(timeout)})
}

func (d *PlaywrightDriver) InputValue(selector string, timeout time.Duration) (string, error) {
	return d.page.Locator(selector).InputValue(playwright.LocatorInputValueOptions{Timeout: ms(timeout)})
}

func (d *PlaywrightDriver) Evaluate(expression string, arg any) (any, error) {
	return d.page.Evaluate(expression, arg)
}

func (d *PlaywrightDriver) Title() (string, error) {
	return d.page.Title()
}

func (d *PlaywrightDriver) URL() string {
	return d.page.URL()
}

func (d *PlaywrightDriver) Content() (string, error) {
	return d.page.Content()
}

func (d *PlaywrightDriver) Screenshot() ([]byte, error) {
	return d.page.Screenshot(playwright.PageScreenshotOptions{FullPage: playwright.Bool(true)})
}
