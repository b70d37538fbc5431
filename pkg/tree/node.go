// Package tree holds the expandable node tree shown in the contents pane and
// flattens it into the ordered sequence of visible rows.
package tree

import (
	"strconv"
	"strings"
)

// Class selects the display color of a label.
type Class int

const (
	ClassGroup Class = iota
	ClassLeaf
	ClassLink
)

// Label is the styled text of a node. Text may span several lines and is
// what search matches against. Detail holds generated lines drawn under the
// text (such as child counts); it adds to the row height but is never
// searched.
type Label struct {
	Text   string
	Detail string
	Class  Class
}

// Lines returns the number of display lines in the label, at least 1.
func (l Label) Lines() int {
	n := strings.Count(l.Text, "\n") + 1
	if l.Detail != "" {
		n += strings.Count(l.Detail, "\n") + 1
	}
	return n
}

// DisplayLines returns the text lines followed by the detail lines.
func (l Label) DisplayLines() []string {
	lines := strings.Split(l.Text, "\n")
	if l.Detail != "" {
		lines = append(lines, strings.Split(l.Detail, "\n")...)
	}
	return lines
}

// FirstLine returns the label text up to the first newline.
func (l Label) FirstLine() string {
	if i := strings.IndexByte(l.Text, '\n'); i >= 0 {
		return l.Text[:i]
	}
	return l.Text
}

// Node is one entry of the navigable tree. A parent exclusively owns its
// children; nodes are addressed by Path, never by pointer identity.
type Node struct {
	Label    Label
	Children []*Node
	Expanded bool
}

// NewNode returns an expanded node.
func NewNode(label Label, children ...*Node) *Node {
	return &Node{Label: label, Children: children, Expanded: true}
}

// Collapsible reports whether the node has children to hide.
func (n *Node) Collapsible() bool {
	return len(n.Children) > 0
}

// Path is a root-relative sequence of child indices.
type Path []int

// String formats the path as "0/2/1".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, "/")
}

// Depth is the number of indices in the path; top-level nodes have depth 1.
func (p Path) Depth() int { return len(p) }

// Parent returns the path of the enclosing node, nil for top-level nodes.
func (p Path) Parent() Path {
	if len(p) <= 1 {
		return nil
	}
	return p[:len(p)-1 : len(p)-1]
}

// Clone returns a copy that does not share storage with p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return append(Path(nil), p...)
}

// Equal reports whether both paths name the same node.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix names p or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && p[:len(prefix)].Equal(prefix)
}

// Lookup returns the node at path, or nil if any index is out of range.
func Lookup(roots []*Node, path Path) *Node {
	if len(path) == 0 {
		return nil
	}
	level := roots
	var cur *Node
	for _, idx := range path {
		if idx < 0 || idx >= len(level) {
			return nil
		}
		cur = level[idx]
		level = cur.Children
	}
	return cur
}

// SetExpandedRecursive sets Expanded on every collapsible node of the given
// subtrees. Leaves keep their flag.
func SetExpandedRecursive(nodes []*Node, expanded bool) {
	for _, n := range nodes {
		if len(n.Children) == 0 {
			continue
		}
		n.Expanded = expanded
		SetExpandedRecursive(n.Children, expanded)
	}
}
