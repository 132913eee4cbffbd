package outliner

import (
	"context"

	"github.com/kuitang/outliner-e2e/internal/obs"
)

// CreateRandomPage creates a page with a random title and returns the title.
func (s *Session) CreateRandomPage(ctx context.Context) (string, error) {
	return s.CreatePage(ctx, s.randomString(RandomTitleLength))
}

// CreatePage creates a page through the search box and waits for its
// first block editor. It returns name.
func (s *Session) CreatePage(ctx context.Context, name string) (string, error) {
	if err := s.click(ctx, SearchButton); err != nil {
		return "", err
	}
	if err := s.fill(ctx, SearchInput, name); err != nil {
		return "", err
	}
	if err := s.click(ctx, NewPageResult); err != nil {
		return "", err
	}
	if err := s.waitVisible(ctx, FirstTextarea, s.timeouts.Action); err != nil {
		return "", err
	}
	obs.From(ctx).Info("page created", "pkg", "outliner", "title", name)
	return name, nil
}

// SearchAndJumpToPage opens an existing page through the search box.
// It returns pageTitle.
func (s *Session) SearchAndJumpToPage(ctx context.Context, pageTitle string) (string, error) {
	if err := s.click(ctx, SearchButton); err != nil {
		return "", err
	}
	if err := s.fill(ctx, SearchInput, pageTitle); err != nil {
		return "", err
	}
	ref := PageRef(pageTitle)
	if err := s.waitVisible(ctx, ref, s.timeouts.Action); err != nil {
		return "", err
	}
	if err := s.click(ctx, ref); err != nil {
		return "", err
	}
	return pageTitle, nil
}

// ActivateNewPage clicks the first block of a freshly opened page.
func (s *Session) ActivateNewPage(ctx context.Context) error {
	if err := s.click(ctx, FirstBlock); err != nil {
		return err
	}
	return s.sleep(ctx, settleActivate)
}

// EditFirstBlock clicks the rendered content of the first block.
func (s *Session) EditFirstBlock(ctx context.Context) error {
	return s.click(ctx, FirstBlockContent)
}
