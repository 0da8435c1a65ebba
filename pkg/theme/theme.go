// Package theme resolves a user's stored light/dark preference into the
// display mode a page is rendered with.
//
// A page must not show anything until its theme is resolved, otherwise the
// viewer briefly sees the wrong palette. Resolution therefore carries a
// readiness flag that the renderer treats as a gate.
package theme

import "strings"

type Mode string

const (
	ModeSystem Mode = ""
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
)

// Class is the value of the class attribute on <html>. ModeSystem leaves it
// empty so the prefers-color-scheme media query decides.
func (m Mode) Class() string {
	return string(m)
}

type Resolution struct {
	Mode  Mode
	Ready bool
}

// Pending is the resolution of a page whose user has not been loaded yet.
func Pending() Resolution {
	return Resolution{}
}

// Resolve maps a stored preference to a display mode. Unknown or missing
// values fall back to the viewer's system preference.
func Resolve(pref *string) Resolution {
	mode := ModeSystem
	if pref != nil {
		switch strings.ToLower(strings.TrimSpace(*pref)) {
		case "dark":
			mode = ModeDark
		case "light":
			mode = ModeLight
		}
	}
	return Resolution{Mode: mode, Ready: true}
}
