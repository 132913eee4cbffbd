package platform

import (
	"runtime"
	"testing"
)

func TestFlagsMatchGOOS(t *testing.T) {
	t.Parallel()
	set := 0
	for _, b := range []bool{IsMac, IsLinux, IsWindows} {
		if b {
			set++
		}
	}
	switch runtime.GOOS {
	case "darwin", "linux", "windows":
		if set != 1 {
			t.Fatalf("expected exactly one platform flag on %s, got %d", runtime.GOOS, set)
		}
	default:
		if set != 0 {
			t.Fatalf("expected no platform flag on %s, got %d", runtime.GOOS, set)
		}
	}
}

func TestChord(t *testing.T) {
	t.Parallel()
	want := "Control+a"
	if runtime.GOOS == "darwin" {
		want = "Meta+a"
	}
	if got := Chord("a"); got != want {
		t.Fatalf("Chord(a) = %q, want %q", got, want)
	}
}
