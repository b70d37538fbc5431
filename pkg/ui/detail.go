package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/h5nav/pkg/model"
)

// detailMarkdown describes an entity as markdown for the details pane.
func detailMarkdown(e *model.Entity, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", e.Name)
	sb.WriteString("| Property | Value |\n|---|---|\n")
	row := func(k, v string) {
		fmt.Fprintf(&sb, "| %s | %s |\n", k, escapeCell(v))
	}
	row("Path", "`"+name+"`")
	row("Kind", e.Kind.String())

	switch e.Kind {
	case model.KindContainer:
		groups, datasets := e.Counts()
		row("Groups", fmt.Sprintf("%d", groups))
		row("Datasets", fmt.Sprintf("%d", datasets))
	case model.KindLeaf:
		m := e.Meta
		row("Shape", m.ShapeString())
		if m.DType != "" {
			row("Type", m.DType)
		}
		row("Elements", fmt.Sprintf("%d", m.Elements()))
		if m.Size > 0 {
			row("Storage", formatSize(int64(m.Size)))
		}
		if m.Layout != "" {
			row("Layout", string(m.Layout))
		}
		if c := m.ChunkString(); c != "" {
			row("Chunks", c)
		}
		if len(m.Filters) > 0 {
			row("Filters", strings.Join(m.Filters, ", "))
		}
	}
	if e.IsLink() {
		row("Link", string(e.Meta.Link))
		if e.Meta.LinkTarget != "" {
			row("Target", "`"+e.Meta.LinkTarget+"`")
		}
	}

	if attrs := e.Meta.Attributes; len(attrs) > 0 {
		sb.WriteString("\n## Attributes\n\n| Name | Value |\n|---|---|\n")
		for _, a := range attrs {
			fmt.Fprintf(&sb, "| %s | %s |\n", escapeCell(a.Name), escapeCell(a.Value))
		}
	}
	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// DetailRenderer renders markdown with glamour, rebuilding its renderer only
// when the wrap width changes.
type DetailRenderer struct {
	style string
	width int
	r     *glamour.TermRenderer
}

// NewDetailRenderer returns a renderer for the given glamour style name.
func NewDetailRenderer(style string) *DetailRenderer {
	return &DetailRenderer{style: style}
}

// Render renders md wrapped to width. If glamour fails the raw markdown is
// returned so the pane is never empty.
func (d *DetailRenderer) Render(md string, width int) string {
	width = max(width, 20)
	if d.r == nil || d.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(d.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		d.r, d.width = r, width
	}
	out, err := d.r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
