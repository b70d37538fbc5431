// Package loader reads hierarchy manifests: JSON or YAML documents that
// describe the group/dataset tree of a scientific file, as produced by an
// h5dump-style exporter.
//
//	{
//	  "name": "scan.nxs",
//	  "groups": [{
//	    "name": "entry",
//	    "attrs": [{"name": "NX_class", "value": "NXentry"}],
//	    "datasets": [{"name": "data", "shape": [100, 2048], "dtype": "float32",
//	                  "layout": "chunked", "chunks": [1, 2048], "filters": ["gzip"]}],
//	    "links": [{"name": "detector", "kind": "soft", "target": "/entry/instrument/detector"}]
//	  }]
//	}
package loader

import (
	"fmt"

	"github.com/vanderheijden86/h5nav/pkg/model"
)

// Manifest is the root document.
type Manifest struct {
	Name     string    `json:"name,omitempty" yaml:"name,omitempty"`
	Format   string    `json:"format,omitempty" yaml:"format,omitempty"`
	Groups   []Group   `json:"groups,omitempty" yaml:"groups,omitempty"`
	Datasets []Dataset `json:"datasets,omitempty" yaml:"datasets,omitempty"`
	Links    []Link    `json:"links,omitempty" yaml:"links,omitempty"`
}

// Group is a container and its members.
type Group struct {
	Name     string            `json:"name" yaml:"name"`
	Attrs    []model.Attribute `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Groups   []Group           `json:"groups,omitempty" yaml:"groups,omitempty"`
	Datasets []Dataset         `json:"datasets,omitempty" yaml:"datasets,omitempty"`
	Links    []Link            `json:"links,omitempty" yaml:"links,omitempty"`
}

// Dataset is a leaf with its storage metadata.
type Dataset struct {
	Name    string            `json:"name" yaml:"name"`
	Shape   []uint64          `json:"shape,omitempty" yaml:"shape,omitempty"`
	DType   string            `json:"dtype,omitempty" yaml:"dtype,omitempty"`
	Size    uint64            `json:"size,omitempty" yaml:"size,omitempty"`
	Layout  model.Layout      `json:"layout,omitempty" yaml:"layout,omitempty"`
	Chunks  []uint64          `json:"chunks,omitempty" yaml:"chunks,omitempty"`
	Filters []string          `json:"filters,omitempty" yaml:"filters,omitempty"`
	Attrs   []model.Attribute `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// Link is a soft or external link shown as a leaf.
type Link struct {
	Name   string         `json:"name" yaml:"name"`
	Kind   model.LinkKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Target string         `json:"target,omitempty" yaml:"target,omitempty"`
}

// Entities converts the manifest into the entity hierarchy. Members of a
// group are ordered groups first, then datasets, then links, each in
// document order.
func (m *Manifest) Entities() ([]*model.Entity, error) {
	return members("", m.Groups, m.Datasets, m.Links)
}

func members(at string, groups []Group, datasets []Dataset, links []Link) ([]*model.Entity, error) {
	out := make([]*model.Entity, 0, len(groups)+len(datasets)+len(links))
	for i, g := range groups {
		where := fmt.Sprintf("%sgroups[%d]", at, i)
		if g.Name == "" {
			return nil, fmt.Errorf("%s: empty name", where)
		}
		children, err := members(where+".", g.Groups, g.Datasets, g.Links)
		if err != nil {
			return nil, err
		}
		e := model.NewGroup(g.Name, children...)
		e.Meta.Attributes = g.Attrs
		out = append(out, e)
	}
	for i, d := range datasets {
		if d.Name == "" {
			return nil, fmt.Errorf("%sdatasets[%d]: empty name", at, i)
		}
		if err := checkLayout(d); err != nil {
			return nil, fmt.Errorf("%sdatasets[%d] %q: %w", at, i, d.Name, err)
		}
		out = append(out, model.NewDataset(d.Name, model.Metadata{
			Shape:      d.Shape,
			DType:      d.DType,
			Size:       d.Size,
			Layout:     d.Layout,
			Chunks:     d.Chunks,
			Filters:    d.Filters,
			Link:       model.LinkHard,
			Attributes: d.Attrs,
		}))
	}
	for i, l := range links {
		if l.Name == "" {
			return nil, fmt.Errorf("%slinks[%d]: empty name", at, i)
		}
		kind := l.Kind
		switch kind {
		case "":
			kind = model.LinkSoft
		case model.LinkSoft, model.LinkExternal:
		default:
			return nil, fmt.Errorf("%slinks[%d] %q: unknown link kind %q", at, i, l.Name, l.Kind)
		}
		out = append(out, model.NewDataset(l.Name, model.Metadata{Link: kind, LinkTarget: l.Target}))
	}
	return out, nil
}

func checkLayout(d Dataset) error {
	switch d.Layout {
	case model.LayoutUnknown, model.LayoutContiguous, model.LayoutCompact:
		if len(d.Chunks) > 0 {
			return fmt.Errorf("chunk shape given for %s layout", layoutName(d.Layout))
		}
	case model.LayoutChunked:
		if len(d.Chunks) != len(d.Shape) {
			return fmt.Errorf("chunk rank %d does not match shape rank %d", len(d.Chunks), len(d.Shape))
		}
	default:
		return fmt.Errorf("unknown layout %q", d.Layout)
	}
	return nil
}

func layoutName(l model.Layout) string {
	if l == model.LayoutUnknown {
		return "unspecified"
	}
	return string(l)
}
