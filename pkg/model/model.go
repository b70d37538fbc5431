// Package model defines the source hierarchy h5nav browses: groups and
// datasets of a hierarchical scientific file, plus the metadata shown in the
// detail pane.
package model

import (
	"fmt"
	"strings"
)

// Kind is the coarse classification of an entity.
type Kind int

const (
	// KindContainer is a group. Containers may have children.
	KindContainer Kind = iota
	// KindLeaf is a dataset. Leaves never have children.
	KindLeaf
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "group"
	case KindLeaf:
		return "dataset"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Layout is the storage layout of a dataset.
type Layout string

const (
	LayoutUnknown    Layout = ""
	LayoutContiguous Layout = "contiguous"
	LayoutChunked    Layout = "chunked"
	LayoutCompact    Layout = "compact"
)

// LinkKind classifies how an entity is reached from its parent.
type LinkKind string

const (
	LinkHard     LinkKind = "hard"
	LinkSoft     LinkKind = "soft"
	LinkExternal LinkKind = "external"
)

// Attribute is a single name/value attribute attached to an entity.
type Attribute struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Metadata is the kind-specific payload rendered in the detail pane.
// The navigation engine never inspects it.
type Metadata struct {
	Shape      []uint64    `json:"shape,omitempty" yaml:"shape,omitempty"`
	DType      string      `json:"dtype,omitempty" yaml:"dtype,omitempty"`
	Size       uint64      `json:"size,omitempty" yaml:"size,omitempty"`
	Layout     Layout      `json:"layout,omitempty" yaml:"layout,omitempty"`
	Chunks     []uint64    `json:"chunks,omitempty" yaml:"chunks,omitempty"`
	Filters    []string    `json:"filters,omitempty" yaml:"filters,omitempty"`
	Link       LinkKind    `json:"link,omitempty" yaml:"link,omitempty"`
	LinkTarget string      `json:"target,omitempty" yaml:"target,omitempty"`
	Attributes []Attribute `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Elements returns the product of the shape dimensions, 1 for a scalar.
func (m Metadata) Elements() uint64 {
	n := uint64(1)
	for _, d := range m.Shape {
		n *= d
	}
	return n
}

// ShapeString formats the shape as "(3, 4)", or "scalar" for rank 0.
func (m Metadata) ShapeString() string {
	if len(m.Shape) == 0 {
		return "scalar"
	}
	return formatDims(m.Shape)
}

// ChunkString formats the chunk shape, empty when not chunked.
func (m Metadata) ChunkString() string {
	if len(m.Chunks) == 0 {
		return ""
	}
	return formatDims(m.Chunks)
}

func formatDims(dims []uint64) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Entity is one node of the source hierarchy.
type Entity struct {
	Name     string
	Kind     Kind
	Children []*Entity
	Meta     Metadata
}

// NewGroup returns a container entity owning children.
func NewGroup(name string, children ...*Entity) *Entity {
	return &Entity{Name: name, Kind: KindContainer, Children: children}
}

// NewDataset returns a leaf entity.
func NewDataset(name string, meta Metadata) *Entity {
	return &Entity{Name: name, Kind: KindLeaf, Meta: meta}
}

// IsLink reports whether the entity is reached through a soft or external link.
func (e *Entity) IsLink() bool {
	return e.Meta.Link == LinkSoft || e.Meta.Link == LinkExternal
}

// Counts returns the number of direct child groups and datasets.
func (e *Entity) Counts() (groups, datasets int) {
	for _, c := range e.Children {
		switch c.Kind {
		case KindContainer:
			groups++
		case KindLeaf:
			datasets++
		}
	}
	return groups, datasets
}

// FileInfo describes an opened file and its top-level entities.
type FileInfo struct {
	Name   string
	Path   string
	Size   int64
	Format string
	Roots  []*Entity
}

// Entities walks the whole hierarchy and counts groups and datasets.
func (f *FileInfo) Entities() (groups, datasets int) {
	var walk func([]*Entity)
	walk = func(es []*Entity) {
		for _, e := range es {
			switch e.Kind {
			case KindContainer:
				groups++
			case KindLeaf:
				datasets++
			}
			walk(e.Children)
		}
	}
	walk(f.Roots)
	return groups, datasets
}

// Entity resolves path against the file's roots.
func (f *FileInfo) Entity(path []int) (*Entity, error) {
	return Resolve(f.Roots, path)
}
