// Package testutil provides deterministic hierarchy fixtures for tests and
// benchmarks.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/h5nav/pkg/loader"
	"github.com/vanderheijden86/h5nav/pkg/model"
)

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed      int64    // Random seed (0 = 42)
	DTypes    []string // Dataset element types to pick from
	AttrEvery int      // Attach an attribute to every Nth entity (0 = never)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:      42,
		DTypes:    []string{"float64", "float32", "int32", "uint16", "string"},
		AttrEvery: 3,
	}
}

// Generator creates entity hierarchies of various shapes. Members of every
// group are ordered groups first, then datasets, matching manifest order.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
	n   int
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if len(cfg.DTypes) == 0 {
		cfg.DTypes = DefaultConfig().DTypes
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) dataset(name string) *model.Entity {
	rank := g.rng.Intn(3)
	shape := make([]uint64, rank)
	for i := range shape {
		shape[i] = uint64(1 + g.rng.Intn(512))
	}
	e := model.NewDataset(name, model.Metadata{
		Shape: shape,
		DType: g.cfg.DTypes[g.rng.Intn(len(g.cfg.DTypes))],
	})
	g.decorate(e)
	return e
}

func (g *Generator) group(name string, children ...*model.Entity) *model.Entity {
	e := model.NewGroup(name, children...)
	g.decorate(e)
	return e
}

func (g *Generator) decorate(e *model.Entity) {
	g.n++
	if g.cfg.AttrEvery > 0 && g.n%g.cfg.AttrEvery == 0 {
		e.Meta.Attributes = append(e.Meta.Attributes, model.Attribute{
			Name:  "seq",
			Value: fmt.Sprintf("%d", g.n),
		})
	}
}

// Chain returns groups nested depth deep with one dataset at the bottom.
//
//	g0 -> g1 -> ... -> g{depth-1} -> data
func (g *Generator) Chain(depth int) []*model.Entity {
	var cur *model.Entity
	for i := depth - 1; i >= 0; i-- {
		if cur == nil {
			cur = g.group(fmt.Sprintf("g%d", i), g.dataset("data"))
			continue
		}
		cur = g.group(fmt.Sprintf("g%d", i), cur)
	}
	if cur == nil {
		return nil
	}
	return []*model.Entity{cur}
}

// Wide returns one group holding n datasets.
func (g *Generator) Wide(n int) []*model.Entity {
	children := make([]*model.Entity, n)
	for i := range children {
		children[i] = g.dataset(fmt.Sprintf("d%04d", i))
	}
	return []*model.Entity{g.group("wide", children...)}
}

// Tree returns a complete tree: every group has breadth child groups and
// breadth datasets, down to depth levels of groups.
func (g *Generator) Tree(depth, breadth int) []*model.Entity {
	var build func(prefix string, level int) []*model.Entity
	build = func(prefix string, level int) []*model.Entity {
		var out []*model.Entity
		if level < depth {
			for i := 0; i < breadth; i++ {
				name := fmt.Sprintf("%sg%d", prefix, i)
				out = append(out, g.group(name, build(name+"_", level+1)...))
			}
		}
		if level > 0 {
			for i := 0; i < breadth; i++ {
				out = append(out, g.dataset(fmt.Sprintf("%sd%d", prefix, i)))
			}
		}
		return out
	}
	return build("", 0)
}

// NeXus returns a NeXus-style layout with one entry per scan:
// entry_N/{instrument/detector/{data,...}, sample/..., data/...}.
func (g *Generator) NeXus(scans, points int) []*model.Entity {
	roots := make([]*model.Entity, scans)
	for s := range roots {
		detector := g.group("detector",
			g.frames("data", points),
			g.dataset("x_pixel_size"),
			g.dataset("y_pixel_size"),
		)
		instrument := g.group("instrument", detector, g.group("source", g.dataset("energy")))
		sample := g.group("sample", g.dataset("name"), g.dataset("temperature"))
		data := g.group("data", g.frames("counts", points))
		entry := g.group(fmt.Sprintf("entry_%d", s+1),
			instrument, sample, data,
			g.dataset("title"), g.dataset("start_time"),
		)
		entry.Meta.Attributes = append(entry.Meta.Attributes, model.Attribute{Name: "NX_class", Value: "NXentry"})
		roots[s] = entry
	}
	return roots
}

func (g *Generator) frames(name string, points int) *model.Entity {
	e := model.NewDataset(name, model.Metadata{
		Shape:   []uint64{uint64(points), 1024, 1024},
		DType:   "uint16",
		Layout:  model.LayoutChunked,
		Chunks:  []uint64{1, 1024, 1024},
		Filters: []string{"gzip"},
		Size:    uint64(points) * 1024 * 1024 * 2,
	})
	g.decorate(e)
	return e
}

// ToManifest converts entities back into a manifest. Links become manifest
// links; everything else keeps its kind.
func ToManifest(name string, roots []*model.Entity) loader.Manifest {
	m := loader.Manifest{Name: name}
	m.Groups, m.Datasets, m.Links = manifestMembers(roots)
	return m
}

func manifestMembers(es []*model.Entity) ([]loader.Group, []loader.Dataset, []loader.Link) {
	var (
		groups   []loader.Group
		datasets []loader.Dataset
		links    []loader.Link
	)
	for _, e := range es {
		switch {
		case e.IsLink():
			links = append(links, loader.Link{Name: e.Name, Kind: e.Meta.Link, Target: e.Meta.LinkTarget})
		case e.Kind == model.KindContainer:
			grp := loader.Group{Name: e.Name, Attrs: e.Meta.Attributes}
			grp.Groups, grp.Datasets, grp.Links = manifestMembers(e.Children)
			groups = append(groups, grp)
		default:
			datasets = append(datasets, loader.Dataset{
				Name:    e.Name,
				Shape:   e.Meta.Shape,
				DType:   e.Meta.DType,
				Size:    e.Meta.Size,
				Layout:  e.Meta.Layout,
				Chunks:  e.Meta.Chunks,
				Filters: e.Meta.Filters,
				Attrs:   e.Meta.Attributes,
			})
		}
	}
	return groups, datasets, links
}

// Count returns the number of entities in the hierarchy.
func Count(es []*model.Entity) int {
	n := 0
	for _, e := range es {
		n += 1 + Count(e.Children)
	}
	return n
}
