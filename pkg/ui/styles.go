package ui

import "github.com/charmbracelet/lipgloss"

// Adaptive palette. Light mode colors are tuned for contrast on white
// backgrounds.
var (
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	ColorMatch   = lipgloss.AdaptiveColor{Light: "#808000", Dark: "#F1FA8C"}

	// Selected rows are drawn black on the row's class color.
	ColorSelectedText = lipgloss.Color("#000000")
)

// Layout constants, in terminal cells.
const (
	headerHeight   = 3 // bordered single-line panels
	footerHeight   = 1
	panelChrome    = 2 // top and bottom border
	indentWidth    = 2 // per nesting level
	minBodyHeight  = 5
	minPanelWidth  = 12
	headerNameFrac = 0.8
)

// rowStyle returns the style of a tree row for its class and nav style.
func (t Theme) rowStyle(color lipgloss.AdaptiveColor, selected, match bool) lipgloss.Style {
	s := t.Renderer.NewStyle()
	switch {
	case selected:
		return s.Foreground(ColorSelectedText).Background(color).Bold(true)
	case match:
		return s.Foreground(t.Match).Bold(true).Underline(true)
	default:
		return s.Foreground(color)
	}
}
