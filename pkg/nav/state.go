// Package nav is the navigation state machine behind the contents pane. It
// owns the selection, the expand flags (through the node tree), the search
// buffer and the input mode, and keeps the flattened rows and viewport window
// in sync after every operation.
package nav

import (
	"github.com/vanderheijden86/h5nav/pkg/debug"
	"github.com/vanderheijden86/h5nav/pkg/search"
	"github.com/vanderheijden86/h5nav/pkg/tree"
	"github.com/vanderheijden86/h5nav/pkg/window"
)

// Mode is the input mode.
type Mode int

const (
	// ModeNormal accepts movement, expand/collapse and quit.
	ModeNormal Mode = iota
	// ModeSearch edits the search buffer; every edit re-applies the search.
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "normal"
}

// Style is how a row should be painted.
type Style int

const (
	StyleNormal Style = iota
	StyleSelected
	StyleMatch
)

// Options configures a new State.
type Options struct {
	DisplayHeight int
	Search        search.Options
}

// State is the navigation state of one loaded tree.
type State struct {
	roots  []*tree.Node
	rows   []tree.VisibleRow
	sel    int
	win    window.Window
	height int

	mode   Mode
	buffer []rune
	filter *search.Filter

	quit bool
}

// New builds the state for roots with the selection on the first row.
func New(roots []*tree.Node, opts Options) *State {
	s := &State{
		roots:  roots,
		height: max(opts.DisplayHeight, 1),
		filter: search.NewFilter(opts.Search),
	}
	s.refresh()
	return s
}

// refresh re-flattens the tree and refits the window. Every tree or search
// mutation goes through here so a stale row sequence is never reused.
func (s *State) refresh() {
	s.rows = tree.Flatten(s.roots, s.filter.Matcher())
	s.fit()
}

// fit clamps the selection and recomputes the window over the current rows.
func (s *State) fit() {
	s.sel = clampIndex(s.sel, len(s.rows))
	s.win = window.Compute(window.Heights(s.rows), s.sel, s.win.Start, s.height)
}

// follow re-flattens and moves the selection to the row for path, or to its
// deepest visible ancestor if path is now hidden.
func (s *State) follow(path tree.Path) {
	s.rows = tree.Flatten(s.roots, s.filter.Matcher())
	if idx := tree.NearestVisible(s.rows, path); idx >= 0 {
		s.sel = idx
	}
	s.fit()
}

func (s *State) selectRow(i int) {
	s.sel = i
	s.fit()
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Mode returns the current input mode.
func (s *State) Mode() Mode { return s.mode }

// Quitting reports whether Quit was requested.
func (s *State) Quitting() bool { return s.quit }

// Rows returns all visible rows. The slice is replaced, not mutated, on the
// next operation.
func (s *State) Rows() []tree.VisibleRow { return s.rows }

// Window returns the rows currently in view.
func (s *State) Window() window.Window { return s.win }

// Visible returns the slice of rows inside the window.
func (s *State) Visible() []tree.VisibleRow {
	if len(s.rows) == 0 {
		return nil
	}
	return s.rows[s.win.Start:s.win.End]
}

// Selection returns the selected row index. It is 0 for an empty tree.
func (s *State) Selection() int { return s.sel }

// SelectedPath returns the path of the selected row, nil for an empty tree.
func (s *State) SelectedPath() tree.Path {
	if len(s.rows) == 0 {
		return nil
	}
	return s.rows[s.sel].Path
}

// DisplayHeight returns the height the window is fitted to.
func (s *State) DisplayHeight() int { return s.height }

// SetDisplayHeight refits the window, for example after a terminal resize.
func (s *State) SetDisplayHeight(h int) {
	s.height = max(h, 1)
	s.fit()
}

// Style returns how row i should be painted. While a search is active the
// selection highlight is replaced by match highlighting.
func (s *State) Style(i int) Style {
	if s.filter.Active() {
		if i >= 0 && i < len(s.rows) && s.rows[i].IsSearchMatch {
			return StyleMatch
		}
		return StyleNormal
	}
	if i == s.sel && len(s.rows) > 0 {
		return StyleSelected
	}
	return StyleNormal
}

// SearchActive reports whether a search is applied.
func (s *State) SearchActive() bool { return s.filter.Active() }

// Buffer returns the search text being edited.
func (s *State) Buffer() string { return string(s.buffer) }

// Matches returns the number of rows matching the active search.
func (s *State) Matches() int { return tree.CountMatches(s.rows) }

func (s *State) normal() bool {
	return s.mode == ModeNormal && len(s.rows) > 0
}

// MoveUp selects the previous row.
func (s *State) MoveUp() {
	if !s.normal() {
		return
	}
	s.selectRow(s.sel - 1)
}

// MoveDown selects the next row.
func (s *State) MoveDown() {
	if !s.normal() {
		return
	}
	s.selectRow(s.sel + 1)
}

// pageStep is one window's worth of rows.
func (s *State) pageStep() int {
	return max(s.win.Len(), 1)
}

// PageUp moves the selection up by one window's worth of rows.
func (s *State) PageUp() {
	if !s.normal() {
		return
	}
	s.selectRow(s.sel - s.pageStep())
}

// PageDown moves the selection down by one window's worth of rows.
func (s *State) PageDown() {
	if !s.normal() {
		return
	}
	s.selectRow(s.sel + s.pageStep())
}

// Top selects the first row.
func (s *State) Top() {
	if !s.normal() {
		return
	}
	s.selectRow(0)
}

// Bottom selects the last row.
func (s *State) Bottom() {
	if !s.normal() {
		return
	}
	s.selectRow(len(s.rows) - 1)
}

// Parent selects the row of the enclosing group, if any.
func (s *State) Parent() {
	if !s.normal() {
		return
	}
	if parent := s.SelectedPath().Parent(); parent != nil {
		s.follow(parent)
	}
}

// SetExpanded sets the expand flag of the node at path and re-flattens. If
// the selection disappears, it moves to its nearest visible ancestor.
func (s *State) SetExpanded(path tree.Path, expanded bool) {
	n := tree.Lookup(s.roots, path)
	if n == nil || !n.Collapsible() {
		return
	}
	selected := s.SelectedPath().Clone()
	n.Expanded = expanded
	s.follow(selected)
}

// Expand expands the selected node. It does nothing on a dataset.
func (s *State) Expand() {
	if !s.normal() {
		return
	}
	s.SetExpanded(s.SelectedPath(), true)
}

// Collapse collapses the selected node when it is an expanded group;
// otherwise it moves the selection to the enclosing group.
func (s *State) Collapse() {
	if !s.normal() {
		return
	}
	path := s.SelectedPath()
	n := tree.Lookup(s.roots, path)
	if n != nil && n.Collapsible() && n.Expanded {
		s.SetExpanded(path, false)
		return
	}
	if parent := path.Parent(); parent != nil {
		s.follow(parent)
	}
}

// ExpandAll expands every group.
func (s *State) ExpandAll() {
	if !s.normal() {
		return
	}
	selected := s.SelectedPath().Clone()
	tree.SetExpandedRecursive(s.roots, true)
	s.follow(selected)
}

// CollapseAll collapses every group; the selection moves to its top-level
// ancestor.
func (s *State) CollapseAll() {
	if !s.normal() {
		return
	}
	selected := s.SelectedPath().Clone()
	tree.SetExpandedRecursive(s.roots, false)
	s.follow(selected)
}

// Quit requests the session to end. It is ignored while editing a search.
func (s *State) Quit() {
	if s.mode != ModeNormal {
		return
	}
	s.quit = true
}

// EnterSearch switches to search entry with an empty pattern, which
// matches nothing.
func (s *State) EnterSearch() {
	if s.mode != ModeNormal {
		return
	}
	empty := ""
	_ = s.filter.Set(&empty)
	s.mode = ModeSearch
	s.buffer = s.buffer[:0]
	s.refresh()
}

// SearchInput appends r to the search buffer and re-applies the search. If
// the new pattern does not compile the edit is rolled back and the
// *search.PatternError is returned.
func (s *State) SearchInput(r rune) error {
	if s.mode != ModeSearch {
		return nil
	}
	return s.setBuffer(append(s.buffer[:len(s.buffer):len(s.buffer)], r))
}

// SearchBackspace removes the last rune of the search buffer, with the same
// rollback rule as SearchInput.
func (s *State) SearchBackspace() error {
	if s.mode != ModeSearch || len(s.buffer) == 0 {
		return nil
	}
	return s.setBuffer(s.buffer[:len(s.buffer)-1])
}

func (s *State) setBuffer(next []rune) error {
	pattern := string(next)
	if err := s.filter.Set(&pattern); err != nil {
		debug.Log("search: rejected %q: %v", pattern, err)
		return err
	}
	s.buffer = next
	s.refresh()
	return nil
}

// CancelSearch leaves search entry and clears the search.
func (s *State) CancelSearch() {
	if s.mode != ModeSearch {
		return
	}
	_ = s.filter.Set(nil)
	s.mode = ModeNormal
	s.buffer = nil
	s.refresh()
}
