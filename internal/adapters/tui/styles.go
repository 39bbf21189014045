package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/anvil/internal/ui/style"
)

var (
	modulePendingStyle = lipgloss.NewStyle().
				Foreground(style.Ash)

	moduleRunningStyle = lipgloss.NewStyle().
				Foreground(style.Ember).
				Bold(true)

	moduleDoneStyle = lipgloss.NewStyle().
			Foreground(style.Success)

	moduleFailedStyle = lipgloss.NewStyle().
				Foreground(style.Failure)

	moduleUpToDateStyle = lipgloss.NewStyle().
				Foreground(style.Ash).
				Faint(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Ember).
			Bold(true)

	durationStyle = lipgloss.NewStyle().
			Foreground(style.Ash)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Ember).
			Foreground(style.OnEmber)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Failure).
				Foreground(style.OnEmber)

	listStyle = lipgloss.NewStyle().
			PaddingRight(2)

	logStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(style.Ash)
)
