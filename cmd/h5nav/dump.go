package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/h5nav/pkg/model"
	"github.com/vanderheijden86/h5nav/pkg/tree"
)

// dumpText prints every row of the fully expanded tree, indented two spaces
// per level, under a one-line file summary.
func dumpText(w io.Writer, info *model.FileInfo, groupSummary bool) error {
	bw := bufio.NewWriter(w)
	groups, datasets := info.Entities()
	fmt.Fprintf(bw, "%s (%s, %d groups, %d datasets)\n", info.Name, info.Format, groups, datasets)

	roots := tree.FromEntities(info.Roots, tree.BuildOptions{GroupSummary: groupSummary})
	for _, row := range tree.Flatten(roots, nil) {
		indent := strings.Repeat("  ", row.Indent())
		for i, line := range row.Label.DisplayLines() {
			if i == 0 {
				fmt.Fprintf(bw, "%s%s\n", indent, line)
				continue
			}
			fmt.Fprintf(bw, "%s  %s\n", indent, line)
		}
	}
	return bw.Flush()
}

type jsonEntity struct {
	Name     string          `json:"name"`
	Path     string          `json:"path"`
	Kind     string          `json:"kind"`
	Meta     *model.Metadata `json:"meta,omitempty"`
	Children []jsonEntity    `json:"children,omitempty"`
}

type jsonFile struct {
	Name     string       `json:"name"`
	Path     string       `json:"path"`
	Format   string       `json:"format"`
	Size     int64        `json:"size"`
	Groups   int          `json:"groups"`
	Datasets int          `json:"datasets"`
	Roots    []jsonEntity `json:"roots"`
}

func toJSONEntities(es []*model.Entity, prefix string) []jsonEntity {
	out := make([]jsonEntity, 0, len(es))
	for _, e := range es {
		je := jsonEntity{
			Name: e.Name,
			Path: prefix + "/" + e.Name,
			Kind: e.Kind.String(),
		}
		if e.Kind == model.KindLeaf || e.IsLink() || len(e.Meta.Attributes) > 0 {
			meta := e.Meta
			je.Meta = &meta
		}
		if len(e.Children) > 0 {
			je.Children = toJSONEntities(e.Children, je.Path)
		}
		out = append(out, je)
	}
	return out
}

// dumpJSON prints the hierarchy as an indented JSON document.
func dumpJSON(w io.Writer, info *model.FileInfo) error {
	groups, datasets := info.Entities()
	doc := jsonFile{
		Name:     info.Name,
		Path:     info.Path,
		Format:   info.Format,
		Size:     info.Size,
		Groups:   groups,
		Datasets: datasets,
		Roots:    toJSONEntities(info.Roots, ""),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
