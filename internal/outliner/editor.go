package outliner

import "context"

// Editor is the textarea of the block being edited.
type Editor struct {
	s        *Session
	selector string
}

func (s *Session) editor(selector string) *Editor {
	return &Editor{s: s, selector: selector}
}

// Selector returns the textarea selector.
func (e *Editor) Selector() string {
	return e.selector
}

// Fill replaces the block text.
func (e *Editor) Fill(ctx context.Context, text string) error {
	return e.s.fill(ctx, e.selector, text)
}

// Type types text key by key, so the app sees every keystroke.
func (e *Editor) Type(ctx context.Context, text string) error {
	return e.s.step(ctx, "type", e.selector, func() error {
		return e.s.d.Type(e.selector, text, e.s.timeouts.Action)
	})
}

// Press presses key in the textarea, e.g. "Enter" or "Shift+Tab".
func (e *Editor) Press(ctx context.Context, key string) error {
	return e.s.press(ctx, e.selector, key)
}

// Value returns the current textarea contents.
func (e *Editor) Value(ctx context.Context) (string, error) {
	var v string
	err := e.s.step(ctx, "input value", e.selector, func() error {
		var err error
		v, err = e.s.d.InputValue(e.selector, e.s.timeouts.Action)
		return err
	})
	return v, err
}
