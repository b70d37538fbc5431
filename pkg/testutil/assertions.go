package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/h5nav/pkg/loader"
	"github.com/vanderheijden86/h5nav/pkg/tree"
	"github.com/vanderheijden86/h5nav/pkg/window"
)

// WriteManifestFile writes m as JSON into dir and returns its path.
func WriteManifestFile(t *testing.T, dir, name string, m loader.Manifest) string {
	t.Helper()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

// RowPaths returns the row paths as "0/1/2" strings joined by spaces.
func RowPaths(rows []tree.VisibleRow) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = r.Path.String()
	}
	return strings.Join(parts, " ")
}

// TB is the subset of testing.TB that rapid.T also satisfies.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
}

// AssertSelectionInView verifies the selection lies inside the window and
// the window lies inside the rows.
func AssertSelectionInView(t TB, rows, sel int, w window.Window) {
	t.Helper()
	if rows == 0 {
		if w.Start != 0 || w.End != 0 {
			t.Errorf("empty rows but window %+v", w)
		}
		return
	}
	if w.Start < 0 || w.End > rows || w.Start >= w.End {
		t.Errorf("window %+v out of bounds for %d rows", w, rows)
	}
	if !w.Contains(sel) {
		t.Errorf("selection %d outside window %+v", sel, w)
	}
}
