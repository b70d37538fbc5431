package datasource

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/h5nav/pkg/model"
)

func createTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE scans (id INTEGER PRIMARY KEY, title TEXT NOT NULL, energy REAL DEFAULT 12.4)`,
		`CREATE TABLE "odd ""name""" (x)`,
		`CREATE INDEX scans_by_title ON scans(title)`,
		`INSERT INTO scans (title) VALUES ('a'), ('b'), ('c')`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}
	return path
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, data []byte) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	userBlock := make([]byte, 512)
	tests := []struct {
		path string
		want SourceType
	}{
		{dir, SourceTypeDirectory},
		{write("a.json", []byte(`{}`)), SourceTypeManifestJSON},
		{write("a.yml", []byte(``)), SourceTypeManifestYAML},
		{write("a.h5", append([]byte("\x89HDF\r\n\x1a\n"), 0, 0)), SourceTypeHDF5},
		{write("b.nxs", append(userBlock, []byte("\x89HDF\r\n\x1a\n")...)), SourceTypeHDF5},
		{createTestDB(t), SourceTypeSQLite},
	}
	for _, tt := range tests {
		src, err := Detect(tt.path)
		if err != nil {
			t.Errorf("Detect(%s): %v", tt.path, err)
			continue
		}
		if src.Type != tt.want {
			t.Errorf("Detect(%s) = %s, want %s", tt.path, src.Type, tt.want)
		}
	}

	_, err := Detect(write("notes.txt", []byte("hello")))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := Detect(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadSQLite(t *testing.T) {
	path := createTestDB(t)
	info, err := Load(context.Background(), path, Options{Concurrency: 2})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if info.Format != string(SourceTypeSQLite) || info.Name != "runs.db" {
		t.Errorf("info = %+v", info)
	}
	if len(info.Roots) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(info.Roots))
	}

	// Tables are sorted by name.
	if info.Roots[0].Name != `odd "name"` || info.Roots[1].Name != "scans" {
		t.Fatalf("tables = %q, %q", info.Roots[0].Name, info.Roots[1].Name)
	}

	scans := info.Roots[1]
	if scans.Kind != model.KindContainer {
		t.Error("table should be a group")
	}
	var names []string
	for _, c := range scans.Children {
		names = append(names, c.Name)
	}
	if got := strings.Join(names, ","); got != "id,title,energy,scans_by_title" {
		t.Errorf("children = %s", got)
	}

	title := scans.Children[1]
	if title.Meta.DType != "TEXT" || title.Meta.ShapeString() != "(3)" {
		t.Errorf("title meta = %+v", title.Meta)
	}
	energy := scans.Children[2]
	if energy.Meta.Attributes[1].Value != "12.4" {
		t.Errorf("energy attrs = %+v", energy.Meta.Attributes)
	}
	idx := scans.Children[3]
	if idx.Meta.Link != model.LinkSoft || idx.Meta.LinkTarget != "/scans/title" {
		t.Errorf("index link = %+v", idx.Meta)
	}
	if scans.Meta.Attributes[0].Value != "3" || scans.Meta.Attributes[1].Value != "id" {
		t.Errorf("table attrs = %+v", scans.Meta.Attributes)
	}

	odd := info.Roots[0]
	if odd.Children[0].Meta.DType != "ANY" {
		t.Errorf("untyped column dtype = %q", odd.Children[0].Meta.DType)
	}
}

func TestLoadDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "raw", "deep", "deeper"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "raw", "frame.bin"), make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "README"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink("raw/frame.bin", filepath.Join(root, "latest")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	info, err := Load(context.Background(), root, Options{MaxDepth: 2})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if info.Size != 102 {
		t.Errorf("total size = %d, want 102", info.Size)
	}

	byName := map[string]*model.Entity{}
	for _, e := range info.Roots {
		byName[e.Name] = e
	}
	if e := byName["README"]; e == nil || e.Kind != model.KindLeaf || e.Meta.Size != 2 {
		t.Errorf("README = %+v", e)
	}
	if e := byName["latest"]; e == nil || e.Meta.Link != model.LinkSoft || e.Meta.LinkTarget != "raw/frame.bin" {
		t.Errorf("latest = %+v", e)
	}
	raw := byName["raw"]
	if raw == nil || raw.Kind != model.KindContainer || len(raw.Children) != 2 {
		t.Fatalf("raw = %+v", raw)
	}
	deep := raw.Children[0]
	if deep.Name != "deep" || len(deep.Children) != 0 || len(deep.Meta.Attributes) != 1 {
		t.Errorf("deep should be truncated at max depth: %+v", deep)
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")
	doc := "name: scan.nxs\nformat: nexus\ngroups:\n  - name: entry\n    datasets:\n      - name: data\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := Load(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if info.Name != "scan.nxs" || info.Format != "nexus" {
		t.Errorf("info = %+v", info)
	}
	if len(info.Roots) != 1 || info.Roots[0].Children[0].Name != "data" {
		t.Errorf("roots = %+v", info.Roots)
	}
}

func TestLoadHDF5Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.h5")
	if err := os.WriteFile(path, []byte("\x89HDF\r\n\x1a\n\x00\x00"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(context.Background(), path, Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestNewSQLiteReaderRejectsOtherSources(t *testing.T) {
	if _, err := NewSQLiteReader(DataSource{Type: SourceTypeDirectory}); err == nil {
		t.Error("expected error for non-SQLite source")
	}
}

func TestDirectoryLinkKinds(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "data")
	for _, dir := range []string{filepath.Join(root, "raw"), filepath.Join(parent, "data2")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	links := map[string]string{
		"inside_abs": filepath.Join(root, "raw"),
		"inside_rel": "raw",
		"sibling":    filepath.Join(parent, "data2"),
		"escape":     "../data2",
	}
	for name, target := range links {
		if err := os.Symlink(target, filepath.Join(root, name)); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
	}

	// Open through a relative path so the root has to be made absolute.
	t.Chdir(parent)
	info, err := Load(context.Background(), "data", Options{MaxDepth: 2})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := map[string]model.LinkKind{
		"inside_abs": model.LinkSoft,
		"inside_rel": model.LinkSoft,
		"sibling":    model.LinkExternal,
		"escape":     model.LinkExternal,
	}
	for _, e := range info.Roots {
		kind, ok := want[e.Name]
		if !ok {
			continue
		}
		if e.Meta.Link != kind {
			t.Errorf("%s: link kind %q, want %q", e.Name, e.Meta.Link, kind)
		}
		delete(want, e.Name)
	}
	for name := range want {
		t.Errorf("link %s missing", name)
	}
}
