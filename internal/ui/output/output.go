// Package output creates termenv outputs with the color profile each kind of
// anvil output needs.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Mode selects how the color profile is chosen.
type Mode int

const (
	// Detect asks the environment what the terminal supports. Log messages use it.
	Detect Mode = iota
	// ANSI keeps to the basic colors CI log viewers render.
	ANSI
	// TrueColor is used by the interactive module tree.
	TrueColor
)

// Profile returns the color profile for mode. A non-empty NO_COLOR disables
// colors in every mode.
func Profile(mode Mode) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}

	switch mode {
	case ANSI:
		return termenv.ANSI
	case TrueColor:
		return termenv.TrueColor
	default:
		return termenv.EnvColorProfile()
	}
}

// New returns an output writing to w, or to stderr when w is nil. The output
// is always treated as a terminal so build logs keep their colors when piped.
func New(w io.Writer, mode Mode) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, termenv.WithProfile(Profile(mode)), termenv.WithTTY(true))
}
