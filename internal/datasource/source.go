// Package datasource detects what kind of file h5nav was pointed at and
// reads it into the entity hierarchy.
package datasource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vanderheijden86/h5nav/pkg/loader"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeManifestJSON is a JSON hierarchy manifest
	SourceTypeManifestJSON SourceType = "manifest-json"
	// SourceTypeManifestYAML is a YAML hierarchy manifest
	SourceTypeManifestYAML SourceType = "manifest-yaml"
	// SourceTypeSQLite is a SQLite database; tables are groups, columns datasets
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeDirectory is a directory tree
	SourceTypeDirectory SourceType = "directory"
	// SourceTypeHDF5 is a native HDF5 file
	SourceTypeHDF5 SourceType = "hdf5"
)

// ErrUnsupportedFormat is returned for files that are recognized but cannot
// be read natively.
var ErrUnsupportedFormat = errors.New("unsupported format")

var (
	hdf5Signature   = []byte("\x89HDF\r\n\x1a\n")
	sqliteSignature = []byte("SQLite format 3\x00")
)

// hdf5SuperblockOffsets are where the HDF5 signature may appear: byte 0, or
// after a user block of 512, 1024, 2048... bytes.
var hdf5SuperblockOffsets = []int64{0, 512, 1024, 2048, 4096, 8192}

// DataSource describes a detected source.
type DataSource struct {
	Type    SourceType `json:"type"`
	Path    string     `json:"path"`
	Size    int64      `json:"size"`
	ModTime time.Time  `json:"mod_time"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	return fmt.Sprintf("%s (%s, %d bytes, mod=%s)", s.Path, s.Type, s.Size, s.ModTime.Format(time.RFC3339))
}

// Detect identifies the source at path: directories by stat, HDF5 and
// SQLite by signature, manifests by extension.
func Detect(path string) (DataSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DataSource{}, fmt.Errorf("cannot open %s: %w", path, err)
	}
	src := DataSource{Path: path, Size: info.Size(), ModTime: info.ModTime()}
	if info.IsDir() {
		src.Type = SourceTypeDirectory
		return src, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return DataSource{}, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	switch {
	case hasSignatureAt(f, sqliteSignature, 0):
		src.Type = SourceTypeSQLite
		return src, nil
	case isHDF5(f):
		src.Type = SourceTypeHDF5
		return src, nil
	}

	switch enc, _ := loader.EncodingForPath(path); enc {
	case loader.EncodingJSON:
		src.Type = SourceTypeManifestJSON
	case loader.EncodingYAML:
		src.Type = SourceTypeManifestYAML
	default:
		return DataSource{}, fmt.Errorf("%s: %w: expected an HDF5 file, a JSON/YAML manifest, a SQLite database or a directory", path, ErrUnsupportedFormat)
	}
	return src, nil
}

func isHDF5(r io.ReaderAt) bool {
	for _, off := range hdf5SuperblockOffsets {
		if hasSignatureAt(r, hdf5Signature, off) {
			return true
		}
	}
	return false
}

func hasSignatureAt(r io.ReaderAt, sig []byte, off int64) bool {
	buf := make([]byte, len(sig))
	if _, err := r.ReadAt(buf, off); err != nil {
		return false
	}
	return bytes.Equal(buf, sig)
}
