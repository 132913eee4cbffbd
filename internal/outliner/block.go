package outliner

import (
	"context"

	"github.com/kuitang/outliner-e2e/internal/graphfs"
)

// LastBlock starts editing the last block of the page body, or the
// placeholder block of an empty page.
func (s *Session) LastBlock(ctx context.Context) (*Editor, error) {
	// discard any popups
	if err := s.keyboard(ctx, "Escape"); err != nil {
		return nil, err
	}
	empty, err := s.isVisible(ctx, ClickHereToEdit)
	if err != nil {
		return nil, err
	}
	target := LastInnerBlock
	if empty {
		target = ClickHereToEdit
	}
	if err := s.click(ctx, target); err != nil {
		return nil, err
	}
	if err := s.waitVisible(ctx, FirstTextarea, s.timeouts.Action); err != nil {
		return nil, err
	}
	if err := s.sleep(ctx, settleEditor); err != nil {
		return nil, err
	}
	return s.editor(FirstTextarea), nil
}

// EnterNextBlock presses Enter in the current editor and waits for the
// editor of the block it creates.
func (s *Session) EnterNextBlock(ctx context.Context) (*Editor, error) {
	n, err := s.count(ctx, InnerBlocks)
	if err != nil {
		return nil, err
	}
	if err := s.press(ctx, FirstTextarea, "Enter"); err != nil {
		return nil, err
	}
	if err := s.sleep(ctx, settleTick); err != nil {
		return nil, err
	}
	if err := s.waitVisible(ctx, BlockTextarea(n), s.timeouts.Action); err != nil {
		return nil, err
	}
	return s.editor(FirstTextarea), nil
}

// NewInnerBlock edits the last block and presses Enter, without waiting
// for the new block.
func (s *Session) NewInnerBlock(ctx context.Context) (*Editor, error) {
	if _, err := s.LastBlock(ctx); err != nil {
		return nil, err
	}
	if err := s.press(ctx, FirstTextarea, "Enter"); err != nil {
		return nil, err
	}
	return s.editor(FirstTextarea), nil
}

// NewBlock appends a block after the last one and waits for its editor.
func (s *Session) NewBlock(ctx context.Context) (*Editor, error) {
	n, err := s.count(ctx, InnerBlocks)
	if err != nil {
		return nil, err
	}
	if _, err := s.LastBlock(ctx); err != nil {
		return nil, err
	}
	if err := s.press(ctx, FirstTextarea, "Enter"); err != nil {
		return nil, err
	}
	if err := s.waitVisible(ctx, InnerBlockTextarea(n), s.timeouts.Action); err != nil {
		return nil, err
	}
	return s.editor(FirstTextarea), nil
}

// BlockCount returns the number of blocks in the page body, nested ones included.
func (s *Session) BlockCount(ctx context.Context) (int, error) {
	return s.count(ctx, InnerBlocks)
}

// BlockText returns the rendered text of the i-th block of the page body
// with all markup removed.
func (s *Session) BlockText(ctx context.Context, i int) (string, error) {
	selector := InnerBlockContent(i)
	var inner string
	err := s.step(ctx, "inner html", selector, func() error {
		var err error
		inner, err = s.d.InnerHTML(selector, s.timeouts.Action)
		return err
	})
	if err != nil {
		return "", err
	}
	return graphfs.PlainText(inner), nil
}
