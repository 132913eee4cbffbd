package browser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kuitang/outliner-e2e/internal/artifacts"
	"github.com/kuitang/outliner-e2e/internal/errs"
	"github.com/kuitang/outliner-e2e/internal/graphfs"
	"github.com/kuitang/outliner-e2e/internal/outliner"
	"github.com/kuitang/outliner-e2e/internal/randutil"
	"github.com/kuitang/outliner-e2e/internal/scenario"
)

func TestCreatePage_FirstBlockIsEditable(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	s := env.NewSession(t)
	ctx := context.Background()

	title, err := s.CreateRandomPage(ctx)
	require.NoError(t, err)
	require.Len(t, title, outliner.RandomTitleLength)

	ed, err := s.LastBlock(ctx)
	require.NoError(t, err)
	require.NoError(t, ed.Fill(ctx, "first thought"))
	require.NoError(t, ed.Press(ctx, "Escape"))

	text, err := s.BlockText(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "first thought", text)
}

func TestEnterNextBlock_CreatesSibling(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	s := env.NewSession(t)
	ctx := context.Background()

	_, err := s.CreatePage(ctx, "Siblings")
	require.NoError(t, err)
	ed, err := s.LastBlock(ctx)
	require.NoError(t, err)
	require.NoError(t, ed.Type(ctx, "one"))

	ed, err = s.EnterNextBlock(ctx)
	require.NoError(t, err)
	require.NoError(t, ed.Type(ctx, "two"))
	value, err := ed.Value(ctx)
	require.NoError(t, err)
	require.Equal(t, "two", value)
	require.NoError(t, ed.Press(ctx, "Escape"))

	n, err := s.BlockCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestCodeEditorRoundTrip(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	s := env.NewSession(t)
	ctx := context.Background()

	_, err := s.CreateRandomPage(ctx)
	require.NoError(t, err)
	ed, err := s.LastBlock(ctx)
	require.NoError(t, err)
	require.NoError(t, ed.Fill(ctx, "```go\nfmt.Println(1)\n```"))

	require.NoError(t, s.EscapeToCodeEditor(ctx))
	require.NoError(t, s.CodeEditor().Fill(ctx, "x := 2"))
	require.NoError(t, s.EscapeToBlockEditor(ctx))

	value, err := ed.Value(ctx)
	require.NoError(t, err)
	require.Equal(t, "```go\nx := 2\n```", value)
}

func TestLoadLocalGraph_Onboarding(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	s := env.NewSessionAt(t, "?onboarding=1")
	ctx := context.Background()

	dir := filepath.Join(t.TempDir(), "onboarding-graph")
	_, pages, err := graphfs.Seed(dir, randutil.New(11), 2)
	require.NoError(t, err)

	require.NoError(t, s.LoadLocalGraph(ctx, dir))

	_, err = s.SearchAndJumpToPage(ctx, pages[1].Title)
	require.NoError(t, err)
	text, err := s.BlockText(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, pages[1].Blocks[0].Content, text)
}

func TestLoadLocalGraph_MissingFolderTimesOut(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	s := env.NewSession(t, outliner.WithTimeouts(outliner.Timeouts{Action: time.Second}))

	err := s.LoadLocalGraph(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "window.document.title")
}

func TestBuiltinScenarios(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	all, err := scenario.Select(nil)
	require.NoError(t, err)

	runner := &scenario.Runner{
		Open:      env.Opener(),
		Artifacts: artifacts.New(t.TempDir(), "run-browser", nil),
		Rand:      randutil.New(2024),
	}
	runner.SessionOptions = []outliner.Option{outliner.WithTimeouts(outliner.Timeouts{
		Action:    browserMaxTimeout,
		Dropdown:  browserMaxTimeout,
		GraphLoad: graphLoadTimeout,
	})}

	for _, res := range runner.Run(context.Background(), all) {
		if !res.Passed() {
			t.Errorf("scenario %s failed after %s: %v (artifacts: %s)",
				res.Name, res.Duration, res.Err, strings.Join(res.Artifacts, ", "))
		}
	}
}

func TestRunner_CapturesArtifactsFromBrowser(t *testing.T) {
	env := SetupBrowserTestEnv(t)
	dir := t.TempDir()
	runner := &scenario.Runner{
		Open:           env.Opener(),
		Artifacts:      artifacts.New(dir, "run-fail", nil),
		SessionOptions: []outliner.Option{outliner.WithTimeouts(outliner.Timeouts{Action: 500 * time.Millisecond})},
	}

	results := runner.Run(context.Background(), []scenario.Scenario{{
		Name: "jump-to-missing",
		Run: func(ctx context.Context, env *scenario.Env) error {
			_, err := env.Session.SearchAndJumpToPage(ctx, "no such page")
			return err
		},
	}})

	require.Len(t, results, 1)
	require.Equal(t, errs.Timeout, errs.CodeOf(results[0].Err))
	require.Len(t, results[0].Artifacts, 3)
	png, err := os.ReadFile(filepath.Join(dir, "run-fail", "jump-to-missing.png"))
	require.NoError(t, err)
	require.NotEmpty(t, png)
}
