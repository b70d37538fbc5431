package ui

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/h5nav/pkg/nav"
	"github.com/vanderheijden86/h5nav/pkg/tree"
)

const (
	glyphExpanded  = "▾"
	glyphCollapsed = "▸"
	glyphLeaf      = "•"
)

func rowGlyph(r tree.VisibleRow) string {
	switch {
	case !r.Collapsible:
		return glyphLeaf
	case r.Expanded:
		return glyphExpanded
	default:
		return glyphCollapsed
	}
}

// rowLines lays out one row: the glyph on the first label line, continuation
// lines aligned under the text.
func rowLines(r tree.VisibleRow) []string {
	indent := strings.Repeat(" ", indentWidth*r.Indent())
	text := r.Label.DisplayLines()
	lines := make([]string, len(text))
	for i, l := range text {
		if i == 0 {
			lines[i] = indent + rowGlyph(r) + " " + l
		} else {
			lines[i] = indent + "  " + l
		}
	}
	return lines
}

// renderTreeRows draws the rows in the state's window into exactly height
// lines of width cells. A row taller than what is left is clipped.
func renderTreeRows(s *nav.State, t Theme, width, height int) []string {
	out := make([]string, 0, height)
	rows := s.Rows()
	if len(rows) == 0 {
		out = append(out, t.MutedText.Render(fitLine("(empty)", width)))
	}
	win := s.Window()
	for i := win.Start; i < win.End && len(out) < height; i++ {
		r := rows[i]
		style := s.Style(i)
		st := t.rowStyle(t.ClassColor(r.Label.Class), style == nav.StyleSelected, style == nav.StyleMatch)
		for _, l := range rowLines(r) {
			if len(out) == height {
				break
			}
			out = append(out, st.Render(fitLine(l, width)))
		}
	}
	for len(out) < height {
		out = append(out, strings.Repeat(" ", width))
	}
	return out
}

// positionIndicator renders "(a-b of n)" for the current window.
func positionIndicator(s *nav.State) string {
	n := len(s.Rows())
	if n == 0 {
		return "(0 of 0)"
	}
	w := s.Window()
	return fmt.Sprintf("(%d-%d of %d)", w.Start+1, w.End, n)
}
