package tree

import (
	"github.com/vanderheijden86/h5nav/pkg/metrics"
)

// Matcher decides whether a label matches the active search.
type Matcher interface {
	Match(text string) bool
}

// VisibleRow is one renderable row of the flattened tree.
type VisibleRow struct {
	Path          Path
	Label         Label
	IsSearchMatch bool
	// Height is the number of display lines the row occupies.
	Height int
	// Collapsible and Expanded mirror the node so renderers can draw the
	// expand glyph without resolving the path again.
	Collapsible bool
	Expanded    bool
}

// Indent is the nesting level of the row, 0 for top-level rows.
func (r VisibleRow) Indent() int {
	return len(r.Path) - 1
}

// Flatten walks roots depth-first in pre-order and returns the visible rows.
// A collapsed node is emitted but its subtree is skipped. When m is non-nil
// each emitted row is tested against its label text (not the detail lines);
// matching only flags rows and never removes them.
func Flatten(roots []*Node, m Matcher) []VisibleRow {
	defer metrics.Timer(metrics.Flatten)()

	rows := make([]VisibleRow, 0, len(roots))
	var appendVisible func(nodes []*Node, prefix Path)
	appendVisible = func(nodes []*Node, prefix Path) {
		for i, n := range nodes {
			path := make(Path, len(prefix)+1)
			copy(path, prefix)
			path[len(prefix)] = i

			rows = append(rows, VisibleRow{
				Path:          path,
				Label:         n.Label,
				IsSearchMatch: m != nil && m.Match(n.Label.Text),
				Height:        n.Label.Lines(),
				Collapsible:   n.Collapsible(),
				Expanded:      n.Expanded,
			})
			if n.Expanded {
				appendVisible(n.Children, path)
			}
		}
	}
	appendVisible(roots, nil)
	return rows
}

// IndexOf returns the index of the row with the given path, or -1.
func IndexOf(rows []VisibleRow, path Path) int {
	for i := range rows {
		if rows[i].Path.Equal(path) {
			return i
		}
	}
	return -1
}

// NearestVisible returns the index of the row whose path is the longest
// prefix of path: the row itself if visible, otherwise its deepest visible
// ancestor. It returns -1 when no ancestor is visible.
func NearestVisible(rows []VisibleRow, path Path) int {
	best, bestLen := -1, 0
	for i := range rows {
		p := rows[i].Path
		if len(p) > bestLen && path.HasPrefix(p) {
			best, bestLen = i, len(p)
			if bestLen == len(path) {
				break
			}
		}
	}
	return best
}

// CountMatches returns the number of rows flagged as search matches.
func CountMatches(rows []VisibleRow) int {
	n := 0
	for i := range rows {
		if rows[i].IsSearchMatch {
			n++
		}
	}
	return n
}
