// Package detector picks the output renderer for the current terminal.
package detector

import (
	"os"
	"strings"

	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive TUI renderer.
	ModeTUI
	// ModeLinear forces the linear CI renderer.
	ModeLinear
)

// String returns the flag spelling of the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// ParseMode parses the value of the --output flag. "ci" is accepted as an
// alias for "linear".
func ParseMode(s string) (OutputMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ModeAuto, nil
	case "tui":
		return ModeTUI, nil
	case "linear", "ci":
		return ModeLinear, nil
	default:
		return ModeAuto, zerr.With(zerr.Wrap(domain.ErrInvalidOutputMode, "unknown output mode"), "mode", s)
	}
}

// Environment is what detection looks at.
type Environment struct {
	IsTerminal bool
	Getenv     func(string) string
}

// CurrentEnvironment inspects stdout and the process environment.
func CurrentEnvironment() Environment {
	return Environment{
		IsTerminal: term.IsTerminal(int(os.Stdout.Fd())),
		Getenv:     os.Getenv,
	}
}

// Detect returns ModeLinear when stdout is not a terminal or a CI system is
// detected, ModeTUI otherwise.
func Detect(env Environment) OutputMode {
	ci := env.Getenv("CI")
	if !env.IsTerminal || ci == "true" || ci == "1" || env.Getenv("TERM") == "dumb" {
		return ModeLinear
	}
	return ModeTUI
}

// ResolveMode applies the user's choice on top of detection.
func ResolveMode(detected, requested OutputMode) OutputMode {
	if requested == ModeAuto {
		return detected
	}
	return requested
}
