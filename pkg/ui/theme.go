package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/h5nav/pkg/config"
	"github.com/vanderheijden86/h5nav/pkg/tree"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and ANSI white
// for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme holds the colors and pre-built styles of the browser.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor

	// Entity classes
	Group lipgloss.AdaptiveColor
	Leaf  lipgloss.AdaptiveColor
	Link  lipgloss.AdaptiveColor

	Match lipgloss.AdaptiveColor
	Error lipgloss.AdaptiveColor

	Base      lipgloss.Style
	Title     lipgloss.Style
	MutedText lipgloss.Style
	MatchText lipgloss.Style
	ErrorText lipgloss.Style
	Panel     lipgloss.Style
	Focused   lipgloss.Style

	// Glamour style name for the detail pane.
	MarkdownStyle string
}

// DefaultTheme returns the Dracula-inspired adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary: ColorPrimary,
		Muted:   ColorMuted,
		Border:  ColorBgHighlight,

		Group: ColorInfo,
		Leaf:  ColorSuccess,
		Link:  ColorWarning,

		Match: ColorMatch,
		Error: ColorDanger,
	}

	t.Base = r.NewStyle().Foreground(ColorText)
	t.Title = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.MatchText = r.NewStyle().Foreground(t.Match).Bold(true)
	t.ErrorText = r.NewStyle().Foreground(t.Error).Bold(true)
	t.Panel = r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border)
	t.Focused = r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Primary)

	t.MarkdownStyle = "dark"
	if !r.HasDarkBackground() {
		t.MarkdownStyle = "light"
	}
	if TermProfile <= colorprofile.Ascii {
		t.MarkdownStyle = "notty"
	}
	return t
}

// ThemeFor builds the theme for a config theme name. "auto" follows the
// terminal background.
func ThemeFor(name string) Theme {
	r := lipgloss.NewRenderer(os.Stdout)
	switch name {
	case config.ThemeDark:
		r.SetHasDarkBackground(true)
	case config.ThemeLight:
		r.SetHasDarkBackground(false)
	}
	return DefaultTheme(r)
}

// ClassColor returns the label color of an entity class.
func (t Theme) ClassColor(c tree.Class) lipgloss.AdaptiveColor {
	switch c {
	case tree.ClassGroup:
		return t.Group
	case tree.ClassLink:
		return t.Link
	default:
		return t.Leaf
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
