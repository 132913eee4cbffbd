package outliner

import (
	"fmt"
	"regexp"
	"time"
)

// fakeDriver records every call as a short string and answers queries
// from canned maps.
type fakeDriver struct {
	calls   []string
	waits   map[string]time.Duration
	counts  map[string]int
	visible map[string]bool
	attrs   map[string]string
	html    map[string]string
	values  map[string]string
	titles  []string
	fail    map[string]error
	onCall  func(call string)
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		waits:   map[string]time.Duration{},
		counts:  map[string]int{},
		visible: map[string]bool{},
		attrs:   map[string]string{},
		html:    map[string]string{},
		values:  map[string]string{},
		fail:    map[string]error{},
	}
}

func (f *fakeDriver) record(call string) error {
	f.calls = append(f.calls, call)
	if f.onCall != nil {
		f.onCall(call)
	}
	return f.fail[call]
}

func (f *fakeDriver) Click(selector string, _ time.Duration) error {
	return f.record("click " + selector)
}

func (f *fakeDriver) Fill(selector, value string, _ time.Duration) error {
	return f.record("fill " + selector + " = " + value)
}

func (f *fakeDriver) Press(selector, key string, _ time.Duration) error {
	return f.record("press " + selector + " " + key)
}

func (f *fakeDriver) Type(selector, text string, _ time.Duration) error {
	return f.record("type " + selector + " = " + text)
}

func (f *fakeDriver) KeyboardPress(key string) error {
	return f.record("keyboard " + key)
}

func (f *fakeDriver) WaitVisible(selector string, timeout time.Duration) error {
	f.waits[selector] = timeout
	return f.record("wait visible " + selector)
}

func (f *fakeDriver) WaitHidden(selector string, timeout time.Duration) error {
	f.waits[selector] = timeout
	return f.record("wait hidden " + selector)
}

func (f *fakeDriver) ExpectClass(selector string, pattern *regexp.Regexp, _ time.Duration) error {
	return f.record("expect class " + selector + " /" + pattern.String() + "/")
}

func (f *fakeDriver) WaitForFunction(expression string, timeout time.Duration) error {
	f.waits[expression] = timeout
	return f.record("function " + expression)
}

func (f *fakeDriver) Sleep(d time.Duration) {
	_ = f.record("sleep " + d.String())
}

func (f *fakeDriver) Count(selector string) (int, error) {
	return f.counts[selector], f.record("count " + selector)
}

func (f *fakeDriver) IsVisible(selector string) (bool, error) {
	return f.visible[selector], f.record("is visible " + selector)
}

func (f *fakeDriver) Attribute(selector, name string, _ time.Duration) (string, error) {
	return f.attrs[selector+"@"+name], f.record("attr " + selector + " " + name)
}

func (f *fakeDriver) InnerHTML(selector string, _ time.Duration) (string, error) {
	return f.html[selector], f.record("inner html " + selector)
}

func (f *fakeDriver) InputValue(selector string, _ time.Duration) (string, error) {
	return f.values[selector], f.record("value " + selector)
}

func (f *fakeDriver) Evaluate(_ string, arg any) (any, error) {
	return nil, f.record("evaluate " + fmt.Sprint(arg))
}

func (f *fakeDriver) Title() (string, error) {
	err := f.record("title")
	if len(f.titles) == 0 {
		return "", err
	}
	t := f.titles[0]
	if len(f.titles) > 1 {
		f.titles = f.titles[1:]
	}
	return t, err
}

func (f *fakeDriver) URL() string {
	return "http://app.test/"
}

func (f *fakeDriver) Content() (string, error) {
	return "<html></html>", nil
}

func (f *fakeDriver) Screenshot() ([]byte, error) {
	return []byte("png"), nil
}
