package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/andrewchch/jira-dependency-viewer/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
)

// OriginIndicator renders an issue's origin flag, with highlight taking
// visual precedence.
func OriginIndicator(issue domain.Issue, color bool) string {
	label := string(issue.Origin)
	if issue.Highlighted {
		label += "*"
	}
	if !color {
		return label
	}
	switch {
	case issue.Highlighted:
		return StyleYellow.Render(label)
	case issue.Origin == domain.OriginSeed:
		return StyleGreen.Render(label)
	default:
		return StyleDim.Render(label)
	}
}

// Header renders a section header with an underline.
func Header(text string, color bool) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	if !color {
		return upper + "\n" + line
	}
	return StyleHeader.Render(upper) + "\n" + StyleDim.Render(line)
}
