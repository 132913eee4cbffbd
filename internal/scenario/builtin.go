package scenario

import (
	"context"
	"fmt"
	"os"

	"github.com/kuitang/outliner-e2e/internal/errs"
	"github.com/kuitang/outliner-e2e/internal/graphfs"
	"github.com/kuitang/outliner-e2e/internal/obs"
	"github.com/kuitang/outliner-e2e/internal/outliner"
)

// Built-in scenario names.
const (
	CreatePage   = "create-page"
	BlockEditing = "block-editing"
	CodeBlock    = "code-block"
	SearchJump   = "search-jump"
	LoadGraph    = "load-graph"
	Sidebar      = "sidebar"
)

// Builtins returns the built-in scenarios.
func Builtins() []Scenario {
	return []Scenario{
		{Name: CreatePage, Description: "create a random page and write its first block", Run: runCreatePage},
		{Name: BlockEditing, Description: "add, nest and append blocks with the keyboard", Run: runBlockEditing},
		{Name: CodeBlock, Description: "edit a code block through the code editor and back", Run: runCodeBlock},
		{Name: SearchJump, Description: "find an existing page through search", Run: runSearchJump},
		{Name: LoadGraph, Description: "load a graph folder and open one of its pages", Run: runLoadGraph},
		{Name: Sidebar, Description: "open the left sidebar", Run: runSidebar},
	}
}

func init() {
	for _, s := range Builtins() {
		if err := Register(s); err != nil {
			panic(err)
		}
	}
}

// step runs fn with the step name attached to ctx for logging.
func step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx = obs.WithStep(ctx, name)
	obs.From(ctx).Debug("step", "pkg", "scenario")
	return fn(ctx)
}

func expectText(ctx context.Context, s *outliner.Session, i int, want string) error {
	got, err := s.BlockText(ctx, i)
	if err != nil {
		return err
	}
	if got != want {
		return errs.New(errs.FailedPrecondition, fmt.Sprintf("block %d text = %q, want %q", i, got, want))
	}
	return nil
}

func expectCount(ctx context.Context, s *outliner.Session, want int) error {
	got, err := s.BlockCount(ctx)
	if err != nil {
		return err
	}
	if got != want {
		return errs.New(errs.FailedPrecondition, fmt.Sprintf("block count = %d, want %d", got, want))
	}
	return nil
}

// writeLast fills the last block with text and leaves the editor.
func writeLast(ctx context.Context, s *outliner.Session, text string) error {
	ed, err := s.LastBlock(ctx)
	if err != nil {
		return err
	}
	if err := ed.Fill(ctx, text); err != nil {
		return err
	}
	return ed.Press(ctx, "Escape")
}

func runCreatePage(ctx context.Context, env *Env) error {
	s := env.Session
	if err := step(ctx, "create page", func(ctx context.Context) error {
		_, err := s.CreateRandomPage(ctx)
		return err
	}); err != nil {
		return err
	}
	text := "hello " + env.Rand.String(8)
	if err := step(ctx, "write block", func(ctx context.Context) error {
		return writeLast(ctx, s, text)
	}); err != nil {
		return err
	}
	return step(ctx, "verify", func(ctx context.Context) error {
		if err := expectCount(ctx, s, 1); err != nil {
			return err
		}
		return expectText(ctx, s, 0, text)
	})
}

func runBlockEditing(ctx context.Context, env *Env) error {
	s := env.Session
	if _, err := s.CreateRandomPage(ctx); err != nil {
		return err
	}

	if err := step(ctx, "type siblings", func(ctx context.Context) error {
		ed, err := s.LastBlock(ctx)
		if err != nil {
			return err
		}
		for i, text := range []string{"first", "second", "third"} {
			if i > 0 {
				if ed, err = s.EnterNextBlock(ctx); err != nil {
					return err
				}
			}
			if err := ed.Fill(ctx, text); err != nil {
				return err
			}
		}
		// nest "third" under "second"
		if err := ed.Press(ctx, "Tab"); err != nil {
			return err
		}
		return ed.Press(ctx, "Escape")
	}); err != nil {
		return err
	}

	if err := step(ctx, "append blocks", func(ctx context.Context) error {
		ed, err := s.NewBlock(ctx)
		if err != nil {
			return err
		}
		if err := ed.Fill(ctx, "fourth"); err != nil {
			return err
		}
		if err := ed.Press(ctx, "Escape"); err != nil {
			return err
		}
		if ed, err = s.NewInnerBlock(ctx); err != nil {
			return err
		}
		if err := ed.Fill(ctx, "fifth"); err != nil {
			return err
		}
		return ed.Press(ctx, "Escape")
	}); err != nil {
		return err
	}

	return step(ctx, "verify", func(ctx context.Context) error {
		if err := expectCount(ctx, s, 5); err != nil {
			return err
		}
		for i, want := range []string{"first", "second", "third", "fourth", "fifth"} {
			if err := expectText(ctx, s, i, want); err != nil {
				return err
			}
		}
		return nil
	})
}

func runCodeBlock(ctx context.Context, env *Env) error {
	s := env.Session
	if _, err := s.CreateRandomPage(ctx); err != nil {
		return err
	}
	ed, err := s.LastBlock(ctx)
	if err != nil {
		return err
	}
	if err := ed.Fill(ctx, "```js\nconsole.log(1)\n```"); err != nil {
		return err
	}

	code := "let x = " + fmt.Sprint(env.Rand.Int(1, 1000))
	if err := step(ctx, "edit code", func(ctx context.Context) error {
		if err := s.EscapeToCodeEditor(ctx); err != nil {
			return err
		}
		if err := s.CodeEditor().Fill(ctx, code); err != nil {
			return err
		}
		return s.EscapeToBlockEditor(ctx)
	}); err != nil {
		return err
	}

	return step(ctx, "verify", func(ctx context.Context) error {
		want := "```js\n" + code + "\n```"
		got, err := ed.Value(ctx)
		if err != nil {
			return err
		}
		if got != want {
			return errs.New(errs.FailedPrecondition, fmt.Sprintf("block source = %q, want %q", got, want))
		}
		if err := ed.Press(ctx, "Escape"); err != nil {
			return err
		}
		return expectText(ctx, s, 0, code)
	})
}

func runSearchJump(ctx context.Context, env *Env) error {
	s := env.Session
	title := "jump target " + env.Rand.String(10)
	text := "destination " + env.Rand.String(6)

	if err := step(ctx, "create target", func(ctx context.Context) error {
		if _, err := s.CreatePage(ctx, title); err != nil {
			return err
		}
		if err := writeLast(ctx, s, text); err != nil {
			return err
		}
		_, err := s.CreateRandomPage(ctx)
		return err
	}); err != nil {
		return err
	}

	return step(ctx, "jump", func(ctx context.Context) error {
		if _, err := s.SearchAndJumpToPage(ctx, title); err != nil {
			return err
		}
		return expectText(ctx, s, 0, text)
	})
}

func runLoadGraph(ctx context.Context, env *Env) error {
	s := env.Session
	dir := env.GraphDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "outliner-graph-*")
		if err != nil {
			return errs.Wrap(errs.Internal, "create temp graph dir", err)
		}
		defer os.RemoveAll(tmp)
		if _, _, err := graphfs.Seed(tmp, env.Rand, 3); err != nil {
			return err
		}
		dir = tmp
	}

	g, err := graphfs.Open(dir)
	if err != nil {
		return err
	}
	pages, err := g.Pages()
	if err != nil {
		return err
	}

	if err := step(ctx, "load graph", func(ctx context.Context) error {
		return s.LoadLocalGraph(ctx, dir)
	}); err != nil {
		return err
	}

	if len(pages) == 0 || len(pages[0].Blocks) == 0 {
		obs.From(ctx).Info("graph has no blocks to verify", "pkg", "scenario", "dir", dir)
		return nil
	}
	page := pages[0]
	return step(ctx, "open page", func(ctx context.Context) error {
		if _, err := s.SearchAndJumpToPage(ctx, page.Title); err != nil {
			return err
		}
		return expectText(ctx, s, 0, page.Blocks[0].Content)
	})
}

func runSidebar(ctx context.Context, env *Env) error {
	s := env.Session
	// a second open must leave the sidebar open
	for range 2 {
		if err := s.OpenLeftSidebar(ctx); err != nil {
			return err
		}
	}
	open, err := s.IsLeftSidebarOpen(ctx)
	if err != nil {
		return err
	}
	if !open {
		return errs.New(errs.FailedPrecondition, "left sidebar is closed after opening it")
	}
	return nil
}
