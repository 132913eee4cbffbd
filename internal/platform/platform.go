// Package platform reports the host operating system for key bindings
// that differ between macOS and the rest.
package platform

import "runtime"

var (
	IsMac     = runtime.GOOS == "darwin"
	IsLinux   = runtime.GOOS == "linux"
	IsWindows = runtime.GOOS == "windows"
)

// Name returns runtime.GOOS.
func Name() string {
	return runtime.GOOS
}

// ModifierKey is the primary shortcut modifier: "Meta" on macOS, "Control" elsewhere.
func ModifierKey() string {
	if IsMac {
		return "Meta"
	}
	return "Control"
}

// Chord joins the modifier with key in Playwright's key syntax, e.g. "Control+a".
func Chord(key string) string {
	return ModifierKey() + "+" + key
}
