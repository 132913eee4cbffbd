package outliner

import "context"

// EscapeToCodeEditor leaves the block editor of a code block and puts the
// cursor in its code editor.
func (s *Session) EscapeToCodeEditor(ctx context.Context) error {
	if err := s.press(ctx, BlockEditorTextarea, "Escape"); err != nil {
		return err
	}
	if err := s.waitVisible(ctx, CodeMirrorPre, s.timeouts.Action); err != nil {
		return err
	}
	if err := s.sleep(ctx, settleCodeMirror); err != nil {
		return err
	}
	if err := s.click(ctx, CodeMirrorPre); err != nil {
		return err
	}
	if err := s.sleep(ctx, settleCodeMirror); err != nil {
		return err
	}
	return s.waitVisible(ctx, CodeMirrorTextarea, s.timeouts.Action)
}

// EscapeToBlockEditor leaves the code editor and returns to the block editor.
func (s *Session) EscapeToBlockEditor(ctx context.Context) error {
	if err := s.sleep(ctx, settleCodeMirror); err != nil {
		return err
	}
	if err := s.click(ctx, CodeMirrorPre); err != nil {
		return err
	}
	if err := s.sleep(ctx, settleCodeMirror); err != nil {
		return err
	}
	if err := s.press(ctx, CodeMirrorTextarea, "Escape"); err != nil {
		return err
	}
	return s.sleep(ctx, settleCodeMirror)
}

// CodeEditor returns the code editor's textarea. It is only present
// between EscapeToCodeEditor and EscapeToBlockEditor.
func (s *Session) CodeEditor() *Editor {
	return s.editor(CodeMirrorTextarea)
}
