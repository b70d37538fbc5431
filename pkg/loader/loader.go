package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Encoding is the serialization of a manifest.
type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingYAML Encoding = "yaml"
)

// EncodingForPath picks the encoding from the file extension.
func EncodingForPath(path string) (Encoding, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return EncodingJSON, true
	case ".yaml", ".yml":
		return EncodingYAML, true
	}
	return "", false
}

// LoadJSON decodes a JSON manifest. Unknown fields are rejected so typos in
// hand-written manifests surface instead of silently dropping metadata.
func LoadJSON(r io.Reader) (*Manifest, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding JSON manifest: %w", err)
	}
	return &m, nil
}

// LoadYAML decodes a YAML manifest.
func LoadYAML(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return &m, nil
		}
		return nil, fmt.Errorf("decoding YAML manifest: %w", err)
	}
	return &m, nil
}

// Load decodes data with the given encoding.
func Load(data []byte, enc Encoding) (*Manifest, error) {
	switch enc {
	case EncodingJSON:
		return LoadJSON(bytes.NewReader(data))
	case EncodingYAML:
		return LoadYAML(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("unknown manifest encoding %q", enc)
}

// LoadFile reads a manifest, choosing the decoder by extension.
func LoadFile(path string) (*Manifest, error) {
	enc, ok := EncodingForPath(path)
	if !ok {
		return nil, fmt.Errorf("%s: not a .json, .yaml or .yml manifest", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Load(data, enc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
