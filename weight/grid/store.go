// Package grid provides the hierarchical key-value storage that model grids
// are read from and written back to.
//
// Paths are slash-separated logical names ("header/tracks",
// "tracks/<id>/volume_weight"). The backing format is irrelevant to callers:
// MemoryStore keeps entries in a map, SQLiteStore persists them in a single
// SQLite table. Every Set is an upsert.
package grid

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned by Get when no value exists at a path.
	ErrNotFound = errors.New("grid: path not found")
	// ErrReadOnly is returned by Set on a store opened read-only.
	ErrReadOnly = errors.New("grid: store is read-only")
	// ErrClosed is returned by operations on a store after Close.
	ErrClosed = errors.New("grid: store closed")
	// ErrWrongKind is returned when a path holds a different kind of value
	// than the caller expects.
	ErrWrongKind = errors.New("grid: unexpected value kind")
	// ErrLocked is returned when the grid lock is held by another process.
	ErrLocked = errors.New("grid: locked by another process")
)

// Kind tags the payload carried by a Value.
type Kind string

const (
	KindScalar  Kind = "scalar"
	KindFloats  Kind = "floats"
	KindStrings Kind = "strings"
)

// Value is a tagged union of the payloads a grid path can hold.
type Value struct {
	Kind    Kind
	Floats  []float64 // KindScalar holds exactly one element
	Strings []string
}

// Scalar wraps a single float.
func Scalar(f float64) Value {
	return Value{Kind: KindScalar, Floats: []float64{f}}
}

// Floats wraps a copy of xs.
func Floats(xs []float64) Value {
	cp := make([]float64, len(xs))
	copy(cp, xs)
	return Value{Kind: KindFloats, Floats: cp}
}

// Strings wraps a copy of ss.
func Strings(ss []string) Value {
	cp := make([]string, len(ss))
	copy(cp, ss)
	return Value{Kind: KindStrings, Strings: cp}
}

// First returns the first numeric sample held by v. Per-track datasets are
// time series; the basis parameters are constant along a track so the first
// sample is representative.
func (v Value) First() (float64, bool) {
	if v.Kind == KindStrings || len(v.Floats) == 0 {
		return 0, false
	}
	return v.Floats[0], true
}

// Validate checks that the payload matches the kind.
func (v Value) Validate() error {
	switch v.Kind {
	case KindScalar:
		if len(v.Floats) != 1 || len(v.Strings) != 0 {
			return fmt.Errorf("scalar value must hold exactly one float")
		}
	case KindFloats:
		if len(v.Strings) != 0 {
			return fmt.Errorf("float array must not hold strings")
		}
	case KindStrings:
		if len(v.Floats) != 0 {
			return fmt.Errorf("string list must not hold floats")
		}
	default:
		return fmt.Errorf("unknown value kind %q", v.Kind)
	}
	return nil
}

// Store is the storage contract the weighting pipeline depends on.
type Store interface {
	// Get returns the value at path, or an error wrapping ErrNotFound.
	Get(ctx context.Context, path string) (Value, error)
	// Set stores v at path, replacing any existing value.
	Set(ctx context.Context, path string, v Value) error
	// Has reports whether a value exists at path.
	Has(ctx context.Context, path string) (bool, error)
	// List returns the sorted immediate child names below prefix.
	// An empty prefix lists the top-level names.
	List(ctx context.Context, prefix string) ([]string, error)
	// Close releases the store and any lock it holds.
	Close() error
}

// childNames extracts the sorted, de-duplicated first path segment below
// prefix from a set of full paths.
func childNames(paths []string, prefix string) []string {
	base := strings.Trim(prefix, "/")
	if base != "" {
		base += "/"
	}
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, p := range paths {
		if !strings.HasPrefix(p, base) {
			continue
		}
		rest := p[len(base):]
		if rest == "" {
			continue
		}
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		if !seen[rest] {
			seen[rest] = true
			names = append(names, rest)
		}
	}
	sort.Strings(names)
	return names
}

func cleanPath(path string) (string, error) {
	p := strings.Trim(path, "/")
	if p == "" {
		return "", fmt.Errorf("grid: empty path")
	}
	return p, nil
}
