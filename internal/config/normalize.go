package config

import (
	"fmt"
	"strings"
)

// Render modes.
const (
	ModeAuto    = "auto"
	ModeConsole = "console"
	ModePlain   = "plain"
	ModeTUI     = "tui"
	ModeNone    = "none"
)

// NormalizeRenderMode lowercases and validates a render mode. Empty means
// auto; "off" and "quiet" are accepted as none.
func NormalizeRenderMode(mode string) (string, error) {
	m := strings.ToLower(strings.TrimSpace(mode))
	switch m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeConsole, ModePlain, ModeTUI, ModeNone:
		return m, nil
	case "off", "quiet":
		return ModeNone, nil
	}
	return "", fmt.Errorf("render.mode must be one of auto, console, plain, tui, none; got %q", mode)
}
