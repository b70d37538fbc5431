package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotFound means a path index was out of range at some depth.
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidDescent means a path tried to descend below a dataset.
	ErrInvalidDescent = errors.New("cannot descend into dataset")
)

// ResolveError reports where resolution of a path failed.
type ResolveError struct {
	Path  []int
	Depth int
	Err   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolving %s at depth %d: %v", joinPath(e.Path), e.Depth, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

func joinPath(path []int) string {
	if len(path) == 0 {
		return "<root>"
	}
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, "/")
}

// Resolve walks path through roots, one child index per depth, and returns
// the entity it names.
func Resolve(roots []*Entity, path []int) (*Entity, error) {
	if len(path) == 0 {
		return nil, &ResolveError{Path: path, Depth: 0, Err: ErrNotFound}
	}
	level := roots
	var cur *Entity
	for depth, idx := range path {
		if cur != nil && cur.Kind == KindLeaf {
			return nil, &ResolveError{Path: path, Depth: depth, Err: ErrInvalidDescent}
		}
		if idx < 0 || idx >= len(level) {
			return nil, &ResolveError{Path: path, Depth: depth, Err: ErrNotFound}
		}
		cur = level[idx]
		level = cur.Children
	}
	return cur, nil
}

// NamePath returns the slash-separated absolute name of the entity at path,
// e.g. "/entry/data/counts".
func NamePath(roots []*Entity, path []int) (string, error) {
	if _, err := Resolve(roots, path); err != nil {
		return "", err
	}
	var b strings.Builder
	level := roots
	for _, idx := range path {
		e := level[idx]
		b.WriteByte('/')
		b.WriteString(e.Name)
		level = e.Children
	}
	return b.String(), nil
}
