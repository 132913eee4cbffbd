package browserenv

import (
	"testing"

	"github.com/kuitang/outliner-e2e/internal/errs"
)

func TestBrowserType_UnknownName(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"lynx", "ie6", "chromium2"} {
		_, err := BrowserType(nil, name)
		if err == nil {
			t.Fatalf("BrowserType(%q) expected error", name)
		}
		if errs.CodeOf(err) != errs.InvalidArgument {
			t.Fatalf("BrowserType(%q) code = %q, want %q", name, errs.CodeOf(err), errs.InvalidArgument)
		}
	}
}

func TestClose_EmptyEnv(t *testing.T) {
	t.Parallel()
	if err := (&Env{}).Close(); err != nil {
		t.Fatalf("Close on empty env: %v", err)
	}
	if err := ClosePage(nil); err != nil {
		t.Fatalf("ClosePage(nil): %v", err)
	}
}
