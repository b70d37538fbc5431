//go:build ignore
// +build ignore

// generate_testdata.go creates manifests of increasing size for manual
// scrolling and search checks.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//   testdata/benchmark/small.json   (5 NeXus entries)
//   testdata/benchmark/medium.json  (100 NeXus entries)
//   testdata/benchmark/large.json   (1000 NeXus entries)
//   testdata/benchmark/deep.yaml    (256 nested groups)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/h5nav/pkg/loader"
	"github.com/vanderheijden86/h5nav/pkg/model"
	"github.com/vanderheijden86/h5nav/pkg/testutil"
)

type datasetSpec struct {
	name  string
	build func(*testutil.Generator) []*model.Entity
}

var datasets = []datasetSpec{
	{"small.json", func(g *testutil.Generator) []*model.Entity { return g.NeXus(5, 100) }},
	{"medium.json", func(g *testutil.Generator) []*model.Entity { return g.NeXus(100, 500) }},
	{"large.json", func(g *testutil.Generator) []*model.Entity { return g.NeXus(1000, 1000) }},
	{"deep.yaml", func(g *testutil.Generator) []*model.Entity { return g.Chain(256) }},
}

func main() {
	outputDir := "testdata/benchmark"
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		roots := ds.build(testutil.NewDefault())
		m := testutil.ToManifest(ds.name, roots)

		data, err := encode(ds.name, m)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode %s: %v\n", ds.name, err)
			os.Exit(1)
		}
		outputPath := filepath.Join(outputDir, ds.name)
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}
		fmt.Printf("  Written %s (%d bytes, %d entities)\n", outputPath, len(data), testutil.Count(roots))
	}

	fmt.Println("\nDone! Test manifests created in", outputDir)
}

func encode(name string, m loader.Manifest) ([]byte, error) {
	if enc, _ := loader.EncodingForPath(name); enc == loader.EncodingYAML {
		return yaml.Marshal(m)
	}
	return json.MarshalIndent(m, "", "  ")
}
