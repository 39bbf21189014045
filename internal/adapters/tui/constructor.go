// Package tui renders a running build as an interactive module tree with a
// log pane for the selected module.
package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/anvil/internal/ui/output"
)

// NewModel creates a model that renders to w.
func NewModel(w io.Writer) *Model {
	if w == nil {
		w = os.Stderr
	}

	out := output.New(w, output.TrueColor)
	lipgloss.SetColorProfile(out.Profile)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = moduleRunningStyle

	return &Model{
		byName:     make(map[string]*ModuleNode),
		bySpan:     make(map[string]*ModuleNode),
		FollowMode: true,
		spinner:    s,
	}
}

// WithDisableTick stops the spinner animation. Tests driving the program
// inside a synctest bubble need the model to go idle.
func (m *Model) WithDisableTick() *Model {
	m.disableTick = true
	return m
}
