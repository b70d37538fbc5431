package datasource

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vanderheijden86/h5nav/pkg/debug"
	"github.com/vanderheijden86/h5nav/pkg/loader"
	"github.com/vanderheijden86/h5nav/pkg/metrics"
	"github.com/vanderheijden86/h5nav/pkg/model"
)

// Options bounds what the readers load.
type Options struct {
	// MaxDepth limits directory recursion.
	MaxDepth int
	// Concurrency limits parallel table inspection for SQLite sources.
	Concurrency int
}

// Load detects the source at path and reads its hierarchy.
func Load(ctx context.Context, path string, opts Options) (*model.FileInfo, error) {
	defer metrics.Timer(metrics.Load)()
	defer debug.LogEnterExit("datasource.Load " + path)()

	src, err := Detect(path)
	if err != nil {
		return nil, err
	}
	return LoadFromSource(ctx, src, opts)
}

// LoadFromSource reads a detected source, dispatching on its type.
func LoadFromSource(ctx context.Context, src DataSource, opts Options) (*model.FileInfo, error) {
	info := &model.FileInfo{
		Name:   filepath.Base(src.Path),
		Path:   src.Path,
		Size:   src.Size,
		Format: string(src.Type),
	}

	switch src.Type {
	case SourceTypeManifestJSON, SourceTypeManifestYAML:
		m, err := loader.LoadFile(src.Path)
		if err != nil {
			return nil, err
		}
		roots, err := m.Entities()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Path, err)
		}
		if m.Name != "" {
			info.Name = m.Name
		}
		if m.Format != "" {
			info.Format = m.Format
		}
		info.Roots = roots

	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", src.Path, err)
		}
		defer reader.Close()
		roots, err := reader.LoadEntities(ctx, opts.Concurrency)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Path, err)
		}
		info.Roots = roots

	case SourceTypeDirectory:
		roots, total, err := NewDirectoryReader(src.Path, opts.MaxDepth).LoadEntities()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Path, err)
		}
		info.Roots = roots
		info.Size = total

	case SourceTypeHDF5:
		return nil, fmt.Errorf("%s: %w: native HDF5 needs an exported JSON or YAML manifest", src.Path, ErrUnsupportedFormat)

	default:
		return nil, fmt.Errorf("unknown source type: %s", src.Type)
	}

	groups, datasets := info.Entities()
	debug.LogFields("loaded source", map[string]any{
		"path": src.Path, "type": src.Type, "groups": groups, "datasets": datasets,
	})
	return info, nil
}
