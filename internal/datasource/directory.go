package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanderheijden86/h5nav/pkg/model"
)

// DirectoryReader presents a directory tree as a hierarchy: directories
// are groups, regular files are datasets sized in bytes, symlinks are soft
// links.
type DirectoryReader struct {
	root     string
	maxDepth int
}

// NewDirectoryReader reads root, descending at most maxDepth levels.
func NewDirectoryReader(root string, maxDepth int) *DirectoryReader {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &DirectoryReader{root: root, maxDepth: max(maxDepth, 1)}
}

// linkKind classifies a symlink found in dir: soft when its target stays
// under the root, external otherwise.
func (r *DirectoryReader) linkKind(dir, target string) model.LinkKind {
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	rel, err := filepath.Rel(r.root, filepath.Clean(target))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return model.LinkExternal
	}
	return model.LinkSoft
}

// LoadEntities returns the entries of the root directory, sorted by name,
// and the total size of the regular files read.
func (r *DirectoryReader) LoadEntities() ([]*model.Entity, int64, error) {
	var total int64
	entities, err := r.readDir(r.root, 1, &total)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func (r *DirectoryReader) readDir(dir string, depth int, total *int64) ([]*model.Entity, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	out := make([]*model.Entity, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return nil, fmt.Errorf("reading link %s: %w", path, err)
			}
			out = append(out, model.NewDataset(entry.Name(), model.Metadata{
				Link:       r.linkKind(dir, target),
				LinkTarget: target,
			}))

		case entry.IsDir():
			var children []*model.Entity
			if depth < r.maxDepth {
				children, err = r.readDir(path, depth+1, total)
				if err != nil {
					return nil, err
				}
			}
			g := model.NewGroup(entry.Name(), children...)
			if depth >= r.maxDepth {
				g.Meta.Attributes = []model.Attribute{{Name: "truncated", Value: "max depth reached"}}
			}
			out = append(out, g)

		case entry.Type().IsRegular():
			info, err := entry.Info()
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", path, err)
			}
			*total += info.Size()
			out = append(out, model.NewDataset(entry.Name(), model.Metadata{
				Shape:  []uint64{uint64(info.Size())},
				DType:  "uint8",
				Size:   uint64(info.Size()),
				Layout: model.LayoutContiguous,
				Link:   model.LinkHard,
				Attributes: []model.Attribute{
					{Name: "mode", Value: info.Mode().String()},
					{Name: "modified", Value: info.ModTime().Format(time.RFC3339)},
				},
			}))
		}
	}
	return out, nil
}
