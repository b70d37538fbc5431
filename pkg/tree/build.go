package tree

import (
	"fmt"

	"github.com/vanderheijden86/h5nav/pkg/model"
)

// BuildOptions controls how entity labels are derived.
type BuildOptions struct {
	// GroupSummary adds a detail line to groups with their child counts,
	// which makes group rows two lines tall. Search ignores it.
	GroupSummary bool
}

// FromEntities builds an expanded node tree mirroring the entity hierarchy.
// Child order is preserved, so a node's path resolves to the entity it was
// built from.
func FromEntities(roots []*model.Entity, opts BuildOptions) []*Node {
	nodes := make([]*Node, len(roots))
	for i, e := range roots {
		nodes[i] = fromEntity(e, opts)
	}
	return nodes
}

func fromEntity(e *model.Entity, opts BuildOptions) *Node {
	n := &Node{Label: entityLabel(e, opts), Expanded: true}
	if len(e.Children) > 0 {
		n.Children = make([]*Node, len(e.Children))
		for i, c := range e.Children {
			n.Children[i] = fromEntity(c, opts)
		}
	}
	return n
}

func entityLabel(e *model.Entity, opts BuildOptions) Label {
	if e.IsLink() {
		return Label{Text: e.Name, Class: ClassLink}
	}
	switch e.Kind {
	case model.KindContainer:
		l := Label{Text: e.Name, Class: ClassGroup}
		if opts.GroupSummary {
			l.Detail = summary(e.Counts())
		}
		return l
	case model.KindLeaf:
		return Label{Text: e.Name, Class: ClassLeaf}
	}
	return Label{Text: e.Name, Class: ClassLeaf}
}

func summary(groups, datasets int) string {
	return fmt.Sprintf("%s, %s", plural(groups, "group"), plural(datasets, "dataset"))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
