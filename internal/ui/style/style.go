// Package style holds the palette and module status icons shared by the
// renderers and the logger.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Ember   = lipgloss.Color("#EA580C")
	Ash     = lipgloss.Color("#667085")
	OnEmber = lipgloss.Color("#FFFFFF")
	Success = lipgloss.Color("#22A06B")
	Failure = lipgloss.Color("#D93025")
	Caution = lipgloss.Color("#F59E0B")
)

// Module status icons. Warning prefixes logged warnings.
const (
	Built    = "✓"
	Failed   = "✗"
	UpToDate = "~"
	Building = "●"
	Queued   = "○"
	Warning  = "!"
)
