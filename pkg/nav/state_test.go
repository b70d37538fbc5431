package nav

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanderheijden86/h5nav/pkg/model"
	"github.com/vanderheijden86/h5nav/pkg/search"
	"github.com/vanderheijden86/h5nav/pkg/tree"
	"github.com/vanderheijden86/h5nav/pkg/window"
)

// Systematic state machine tests, organized as State x Operation -> Behavior.

func abcd() []*tree.Node {
	return []*tree.Node{
		tree.NewNode(tree.Label{Text: "A"},
			tree.NewNode(tree.Label{Text: "B", Class: tree.ClassLeaf}),
			tree.NewNode(tree.Label{Text: "C"},
				tree.NewNode(tree.Label{Text: "D", Class: tree.ClassLeaf}),
			),
		),
	}
}

func newState(t *testing.T, height int) *State {
	t.Helper()
	return New(abcd(), Options{DisplayHeight: height})
}

func selected(s *State) string {
	if len(s.Rows()) == 0 {
		return ""
	}
	return s.Rows()[s.Selection()].Label.Text
}

func visible(s *State) string {
	rows := s.Visible()
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = r.Label.Text
	}
	return strings.Join(parts, ",")
}

func TestScenario_PageDownScrollsToLastRows(t *testing.T) {
	s := newState(t, 2)
	assert.Equal(t, "A,B", visible(s))

	s.MoveDown()
	s.MoveDown()
	assert.Equal(t, "C", selected(s))

	s.PageDown()
	assert.Equal(t, "D", selected(s))
	assert.Equal(t, "C,D", visible(s))
	assert.Equal(t, window.Window{Start: 2, End: 4}, s.Window())
}

func TestScenario_CollapseParentOfSelection(t *testing.T) {
	s := newState(t, 10)
	s.Bottom()
	require.Equal(t, "D", selected(s))

	s.SetExpanded(tree.Path{0, 1}, false)
	assert.Equal(t, "C", selected(s))
	assert.Len(t, s.Rows(), 3)
}

func TestScenario_SearchFlagsOnlyMatch(t *testing.T) {
	s := newState(t, 10)
	s.EnterSearch()
	require.NoError(t, s.SearchInput('B'))

	for i, r := range s.Rows() {
		want := r.Label.Text == "B"
		assert.Equal(t, want, r.IsSearchMatch, "row %s", r.Label.Text)
		if want {
			assert.Equal(t, StyleMatch, s.Style(i))
		} else {
			assert.Equal(t, StyleNormal, s.Style(i))
		}
	}
	assert.Len(t, s.Rows(), 4)
	assert.Equal(t, 1, s.Matches())
}

// =============================================================================
// NORMAL MODE
// =============================================================================

func TestNormal_Movement(t *testing.T) {
	tests := []struct {
		name string
		ops  []func(*State)
		want string
	}{
		{"down", []func(*State){(*State).MoveDown}, "B"},
		{"up at top stays", []func(*State){(*State).MoveUp}, "A"},
		{"down past end clamps", []func(*State){(*State).Bottom, (*State).MoveDown}, "D"},
		{"page up clamps", []func(*State){(*State).MoveDown, (*State).PageUp}, "A"},
		{"bottom then top", []func(*State){(*State).Bottom, (*State).Top}, "A"},
		{"parent of D", []func(*State){(*State).Bottom, (*State).Parent}, "C"},
		{"parent of top-level", []func(*State){(*State).Parent}, "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newState(t, 2)
			for _, op := range tt.ops {
				op(s)
			}
			assert.Equal(t, tt.want, selected(s))
			assert.True(t, s.Window().Contains(s.Selection()))
		})
	}
}

func TestNormal_CollapseExpand(t *testing.T) {
	s := newState(t, 10)
	s.MoveDown()
	s.MoveDown() // C

	s.Collapse()
	assert.Equal(t, "A,B,C", visible(s))
	assert.Equal(t, "C", selected(s))

	// Collapsing an already collapsed group moves to its parent.
	s.Collapse()
	assert.Equal(t, "A", selected(s))

	s.MoveDown()
	s.MoveDown()
	s.Expand()
	assert.Equal(t, "A,B,C,D", visible(s))

	// Collapse on a dataset selects the enclosing group without mutating.
	s.Bottom()
	s.Collapse()
	assert.Equal(t, "C", selected(s))
	assert.Len(t, s.Rows(), 4)

	// Expand on a dataset is a no-op.
	s.MoveUp()
	s.Expand()
	assert.Equal(t, "B", selected(s))
	assert.Len(t, s.Rows(), 4)
}

func TestNormal_CollapseAllExpandAll(t *testing.T) {
	s := newState(t, 10)
	s.Bottom()

	s.CollapseAll()
	assert.Equal(t, "A", visible(s))
	assert.Equal(t, "A", selected(s))

	s.ExpandAll()
	assert.Equal(t, "A,B,C,D", visible(s))
	assert.Equal(t, "A", selected(s))
}

func TestNormal_Quit(t *testing.T) {
	s := newState(t, 10)
	assert.False(t, s.Quitting())
	s.Quit()
	assert.True(t, s.Quitting())
}

func TestNormal_SelectedStyle(t *testing.T) {
	s := newState(t, 10)
	s.MoveDown()
	assert.Equal(t, StyleSelected, s.Style(1))
	assert.Equal(t, StyleNormal, s.Style(0))
}

func TestEmptyTree_AllOperationsNoOp(t *testing.T) {
	s := New(nil, Options{DisplayHeight: 5})
	ops := []func(*State){
		(*State).MoveUp, (*State).MoveDown, (*State).PageUp, (*State).PageDown,
		(*State).Expand, (*State).Collapse, (*State).ExpandAll, (*State).CollapseAll,
		(*State).Top, (*State).Bottom, (*State).Parent,
	}
	for _, op := range ops {
		op(s)
	}
	assert.Equal(t, 0, s.Selection())
	assert.Nil(t, s.SelectedPath())
	assert.Empty(t, s.Visible())
	assert.Equal(t, window.Window{}, s.Window())
}

// =============================================================================
// SEARCH MODE
// =============================================================================

func TestSearch_NormalOperationsIgnored(t *testing.T) {
	ops := []struct {
		name string
		op   func(*State)
	}{
		{"MoveDown", (*State).MoveDown},
		{"PageDown", (*State).PageDown},
		{"Collapse", (*State).Collapse},
		{"CollapseAll", (*State).CollapseAll},
		{"Bottom", (*State).Bottom},
		{"Quit", (*State).Quit},
		{"EnterSearch", (*State).EnterSearch},
	}
	for _, tt := range ops {
		t.Run(tt.name+"_ignored_while_searching", func(t *testing.T) {
			s := newState(t, 10)
			s.EnterSearch()
			require.NoError(t, s.SearchInput('C'))

			tt.op(s)

			assert.Equal(t, ModeSearch, s.Mode())
			assert.Equal(t, "A", selected(s))
			assert.Len(t, s.Rows(), 4)
			assert.False(t, s.Quitting())
			assert.Equal(t, "C", s.Buffer())
		})
	}
}

func TestSearch_EmptyPatternMatchesNothing(t *testing.T) {
	s := newState(t, 10)
	s.EnterSearch()
	assert.Equal(t, ModeSearch, s.Mode())
	assert.True(t, s.SearchActive())
	assert.Equal(t, 0, s.Matches())
	// No selection highlight while searching.
	assert.Equal(t, StyleNormal, s.Style(s.Selection()))
}

func TestSearch_InvalidInputRollsBack(t *testing.T) {
	s := newState(t, 10)
	s.EnterSearch()
	require.NoError(t, s.SearchInput('B'))

	err := s.SearchInput('[')
	var perr *search.PatternError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "B", s.Buffer())
	assert.Equal(t, 1, s.Matches())
}

func TestSearch_BackspaceRestoresPreviousPattern(t *testing.T) {
	s := newState(t, 10)
	s.EnterSearch()
	for _, r := range "C+x" {
		require.NoError(t, s.SearchInput(r))
	}
	assert.Equal(t, "C+x", s.Buffer())
	assert.Equal(t, 0, s.Matches())

	require.NoError(t, s.SearchBackspace())
	require.NoError(t, s.SearchBackspace())
	assert.Equal(t, "C", s.Buffer())
	assert.Equal(t, 1, s.Matches())
}

func TestSearch_BackspaceAndCancel(t *testing.T) {
	s := newState(t, 10)
	s.EnterSearch()
	require.NoError(t, s.SearchInput('D'))
	assert.Equal(t, 1, s.Matches())

	require.NoError(t, s.SearchBackspace())
	assert.Equal(t, "", s.Buffer())
	assert.Equal(t, 0, s.Matches())

	// Backspace on an empty buffer is a no-op.
	require.NoError(t, s.SearchBackspace())

	s.CancelSearch()
	assert.Equal(t, ModeNormal, s.Mode())
	assert.False(t, s.SearchActive())
	assert.Equal(t, StyleSelected, s.Style(s.Selection()))
}

func TestSearch_DoesNotExpand(t *testing.T) {
	s := newState(t, 10)
	s.MoveDown()
	s.MoveDown()
	s.Collapse() // C collapsed, D hidden

	s.EnterSearch()
	require.NoError(t, s.SearchInput('D'))
	assert.Equal(t, 0, s.Matches())
	assert.Len(t, s.Rows(), 3)
}

func TestSetDisplayHeightRefits(t *testing.T) {
	s := newState(t, 10)
	s.Bottom()
	s.SetDisplayHeight(1)
	assert.Equal(t, window.Window{Start: 3, End: 4}, s.Window())

	s.SetDisplayHeight(10)
	assert.Equal(t, 3, s.Window().Start)
	assert.Equal(t, 4, s.Window().End)

	s.Top()
	assert.Equal(t, window.Window{Start: 0, End: 4}, s.Window())
}

func TestSearch_GroupSummaryNotMatched(t *testing.T) {
	roots := tree.FromEntities([]*model.Entity{
		model.NewGroup("entry", model.NewDataset("counts", model.Metadata{})),
	}, tree.BuildOptions{GroupSummary: true})
	s := New(roots, Options{DisplayHeight: 10})

	s.EnterSearch()
	for _, r := range "dataset" {
		require.NoError(t, s.SearchInput(r))
	}
	assert.Equal(t, 0, s.Matches(), "summary line must not match")

	s.CancelSearch()
	s.EnterSearch()
	for _, r := range "entry$" {
		require.NoError(t, s.SearchInput(r))
	}
	require.Equal(t, 1, s.Matches())
	assert.True(t, s.Rows()[0].IsSearchMatch)
	assert.Equal(t, StyleMatch, s.Style(0))
}
