// Package window computes which contiguous slice of variable-height rows is
// drawn in a bounded display area.
//
// The window scrolls as little as possible: it stays anchored at its previous
// start until the selection would leave it, then moves just far enough to
// bring the selection back into view.
package window

import (
	"github.com/vanderheijden86/h5nav/pkg/metrics"
	"github.com/vanderheijden86/h5nav/pkg/tree"
)

// Window is the half-open range [Start, End) of rows to render.
type Window struct {
	Start int
	End   int
}

// Len returns the number of rows in the window.
func (w Window) Len() int { return w.End - w.Start }

// Contains reports whether row i is inside the window.
func (w Window) Contains(i int) bool { return i >= w.Start && i < w.End }

// Prefix returns cumulative heights: H[i] is the total height of rows [0, i).
func Prefix(heights []int) []int {
	h := make([]int, len(heights)+1)
	for i, v := range heights {
		if v < 1 {
			v = 1
		}
		h[i+1] = h[i] + v
	}
	return h
}

// Heights extracts the row heights of a flattened tree.
func Heights(rows []tree.VisibleRow) []int {
	out := make([]int, len(rows))
	for i := range rows {
		out[i] = rows[i].Height
	}
	return out
}

// Compute returns the window for the selected row given the previous window
// start and the display height, in the same units as heights.
//
// The result satisfies Start <= sel < End for non-empty input, and the rows
// in the window never exceed displayHeight unless a single row alone does;
// in that case the window holds just that row and the renderer clips it.
func Compute(heights []int, sel, prevStart, displayHeight int) Window {
	defer metrics.Timer(metrics.Window)()

	n := len(heights)
	if n == 0 {
		return Window{}
	}
	sel = clamp(sel, 0, n-1)
	prevStart = clamp(prevStart, 0, n-1)
	if displayHeight < 1 {
		displayHeight = 1
	}
	h := Prefix(heights)

	var start int
	switch {
	case sel < prevStart:
		// Scrolling up past the top.
		start = sel
	case h[sel+1]-h[prevStart] > displayHeight:
		// Scrolling down past the bottom: the smallest start that still
		// fits everything through the selection.
		start = sel
		for start > 0 && h[sel+1]-h[start-1] <= displayHeight {
			start--
		}
	default:
		start = prevStart
	}

	return Window{Start: start, End: fill(h, start, displayHeight)}
}

// fill returns the largest end such that rows [start, end) fit in
// displayHeight, always including at least the row at start.
func fill(h []int, start, displayHeight int) int {
	n := len(h) - 1
	end := start + 1
	for end < n && h[end+1]-h[start] <= displayHeight {
		end++
	}
	return end
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
