package outliner

import (
	"context"
	"encoding/json"
	"regexp"
	"slices"

	"github.com/kuitang/outliner-e2e/internal/obs"
)

var sidebarOpenPattern = regexp.MustCompile(SidebarOpenClass)

const setMockedOpenDirScript = `([path]) => {
  Object.assign(window, {
    ` + MockedOpenDirGlobal + `: path,
  })
}`

// SetMockedOpenDirPath sets the folder the app will receive the next time
// it asks the user to pick one. An empty path clears it.
func (s *Session) SetMockedOpenDirPath(ctx context.Context, path string) error {
	return s.step(ctx, "evaluate", MockedOpenDirGlobal, func() error {
		_, err := s.d.Evaluate(setMockedOpenDirScript, []any{path})
		return err
	})
}

func (s *Session) sidebarOpen(ctx context.Context) (bool, error) {
	var class string
	err := s.step(ctx, "get class", LeftSidebar, func() error {
		var err error
		class, err = s.d.Attribute(LeftSidebar, "class", s.timeouts.Action)
		return err
	})
	if err != nil {
		return false, err
	}
	return sidebarOpenPattern.MatchString(class), nil
}

func (s *Session) expectSidebarOpen(ctx context.Context) error {
	return s.step(ctx, "expect class "+SidebarOpenClass, LeftSidebar, func() error {
		return s.d.ExpectClass(LeftSidebar, sidebarOpenPattern, s.timeouts.Action)
	})
}

// IsLeftSidebarOpen reports whether the left sidebar is open.
func (s *Session) IsLeftSidebarOpen(ctx context.Context) (bool, error) {
	return s.sidebarOpen(ctx)
}

// OpenLeftSidebar opens the left sidebar unless it is already open.
func (s *Session) OpenLeftSidebar(ctx context.Context) error {
	open, err := s.sidebarOpen(ctx)
	if err != nil || open {
		return err
	}
	if err := s.click(ctx, LeftMenuButton); err != nil {
		return err
	}
	if err := s.sleep(ctx, settleTick); err != nil {
		return err
	}
	return s.expectSidebarOpen(ctx)
}

// LoadLocalGraph adds the graph folder at path and waits until the app
// has parsed it. It goes through onboarding when that is showing, and
// through the sidebar's graph switcher otherwise.
func (s *Session) LoadLocalGraph(ctx context.Context, path string) error {
	if err := s.SetMockedOpenDirPath(ctx, path); err != nil {
		return err
	}

	onboarding, err := s.isVisible(ctx, ChooseFolder)
	if err != nil {
		return err
	}
	if onboarding {
		if err := s.click(ctx, ChooseFolder); err != nil {
			return err
		}
	} else if err := s.addGraphFromSidebar(ctx); err != nil {
		return err
	}

	if err := s.SetMockedOpenDirPath(ctx, ""); err != nil {
		return err
	}

	if err := s.waitHidden(ctx, ParsingFiles, s.timeouts.GraphLoad); err != nil {
		return err
	}

	title, err := s.title(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(ImportTitles, title) {
		if err := s.click(ctx, SkipButton); err != nil {
			return err
		}
	}

	expr := "window.document.title === " + jsString(s.expectedTitle)
	if err := s.step(ctx, "wait for function", expr, func() error {
		return s.d.WaitForFunction(expr, s.timeouts.Title)
	}); err != nil {
		return err
	}

	obs.From(ctx).Info("graph loaded", "pkg", "outliner", "path", path)
	return nil
}

func (s *Session) addGraphFromSidebar(ctx context.Context) error {
	// The menu button toggles the sidebar, so the first click may close it.
	if err := s.click(ctx, LeftMenuButton); err != nil {
		return err
	}
	open, err := s.sidebarOpen(ctx)
	if err != nil {
		return err
	}
	if !open {
		if err := s.click(ctx, LeftMenuButton); err != nil {
			return err
		}
		if err := s.expectSidebarOpen(ctx); err != nil {
			return err
		}
	}

	if err := s.click(ctx, RepoSwitch); err != nil {
		return err
	}
	if err := s.waitVisible(ctx, AddNewGraphInDropdown, s.timeouts.Dropdown); err != nil {
		return err
	}
	if err := s.click(ctx, AddNewGraph); err != nil {
		return err
	}
	if err := s.waitVisible(ctx, ChooseFolder, s.timeouts.Dropdown); err != nil {
		return err
	}
	if err := s.click(ctx, ChooseFolder); err != nil {
		return err
	}
	return s.click(ctx, SkipLink)
}

func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
