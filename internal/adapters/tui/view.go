package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/anvil/internal/ui/style"
)

// View renders the module tree next to the log pane of the selected module.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.moduleList(),
		m.logPane(),
	)
}

func (m *Model) moduleList() string {
	var s strings.Builder

	title := titleStyle
	if m.Failed() {
		title = failureTitleStyle
	}
	s.WriteString(title.Render("MODULES") + "\n\n")

	end := min(m.ListOffset+m.ListHeight, len(m.Rows))
	start := min(m.ListOffset, end)
	for i := start; i < end; i++ {
		s.WriteString(m.renderRow(i, m.Rows[i]) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderRow(index int, row *TreeRow) string {
	node := row.Module
	rowStyle := statusStyle(node.Status)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if node.Status == StatusPending || node.Status == StatusRunning {
			rowStyle = selectedStyle
		}
	}

	marker := " "
	if len(row.Children) > 0 && !row.Expanded {
		marker = "+"
	}

	content := fmt.Sprintf("%s%s%s %s", strings.Repeat("  ", row.Depth), marker, m.statusIcon(node.Status), node.Name)
	line := cursor + rowStyle.Render(content)
	if d := formatDuration(node); d != "" {
		line += " " + durationStyle.Render(d)
	}
	return line
}

func (m *Model) statusIcon(status ModuleStatus) string {
	switch status {
	case StatusRunning:
		if m.disableTick {
			return style.Building
		}
		return m.spinner.View()
	case StatusDone:
		return style.Built
	case StatusUpToDate:
		return style.UpToDate
	case StatusFailed:
		return style.Failed
	default:
		return style.Queued
	}
}

func statusStyle(status ModuleStatus) lipgloss.Style {
	switch status {
	case StatusRunning:
		return moduleRunningStyle
	case StatusDone:
		return moduleDoneStyle
	case StatusUpToDate:
		return moduleUpToDateStyle
	case StatusFailed:
		return moduleFailedStyle
	default:
		return modulePendingStyle
	}
}

// formatDuration returns the elapsed time of a finished module, empty otherwise.
func formatDuration(node *ModuleNode) string {
	if node.Status != StatusDone && node.Status != StatusFailed {
		return ""
	}
	return node.Duration.Round(time.Millisecond).String()
}

func (m *Model) logPane() string {
	var header, content string

	if node := m.ActiveModule(); node != nil {
		mode := " (Manual)"
		if m.FollowMode {
			mode = " (Following)"
		}
		title := titleStyle
		if node.Status == StatusFailed {
			title = failureTitleStyle
		}
		header = title.Render("LOGS: " + node.Name + mode)
		content = node.Term.View()
	} else {
		header = titleStyle.Render("LOGS (Waiting...)")
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			content,
		),
	)
}
