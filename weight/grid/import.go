package grid

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Document is the YAML description of a grid accepted by ImportDocument.
//
//	version: "1.0"
//	pars_sampled: [massini, FeHini]
//	header:
//	  massini: [0.8, 1.0]
//	tracks:
//	  - id: track0001
//	    values:
//	      FeHini: [-0.5, -0.5]
type Document struct {
	Version     string               `yaml:"version,omitempty"`
	ParsSampled []string             `yaml:"pars_sampled,omitempty"`
	Header      map[string][]float64 `yaml:"header,omitempty"`
	Tracks      []TrackDocument      `yaml:"tracks"`
}

// TrackDocument holds the per-track datasets of one track.
type TrackDocument struct {
	ID     string               `yaml:"id"`
	Values map[string][]float64 `yaml:"values,omitempty"`
}

// LoadDocument parses a grid description with strict field checking.
func LoadDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading grid document: %w", err)
	}
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing grid document: %w", err)
	}
	return &doc, nil
}

// LoadDocumentFile parses the grid description at path.
func LoadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading grid document: %w", err)
	}
	defer f.Close()
	return LoadDocument(f)
}

// Validate checks track ids and header array lengths.
func (d *Document) Validate() error {
	seen := make(map[string]bool, len(d.Tracks))
	for i, t := range d.Tracks {
		if t.ID == "" {
			return fmt.Errorf("track[%d]: id is required", i)
		}
		group := TrackGroup(t.ID)
		if seen[group] {
			return fmt.Errorf("track[%d]: duplicate id %q", i, group)
		}
		seen[group] = true
	}
	for name, xs := range d.Header {
		if len(xs) != len(d.Tracks) {
			return fmt.Errorf("header %q has %d values, want one per track (%d)", name, len(xs), len(d.Tracks))
		}
	}
	return nil
}

// ImportDocument writes doc into s and returns the number of paths written.
func ImportDocument(ctx context.Context, s Store, doc *Document) (int, error) {
	if err := doc.Validate(); err != nil {
		return 0, err
	}

	written := 0
	set := func(path string, v Value) error {
		if err := s.Set(ctx, path, v); err != nil {
			return err
		}
		written++
		return nil
	}

	if doc.Version != "" {
		if err := set(HeaderVersion, Strings([]string{doc.Version})); err != nil {
			return written, err
		}
	}
	if len(doc.ParsSampled) > 0 {
		if err := set(HeaderParsSampled, Strings(doc.ParsSampled)); err != nil {
			return written, err
		}
	}

	ids := make([]string, len(doc.Tracks))
	for i, t := range doc.Tracks {
		ids[i] = t.ID
	}
	if err := set(HeaderTracks, Strings(ids)); err != nil {
		return written, err
	}

	for _, name := range sortedKeys(doc.Header) {
		if err := set(HeaderPath(name), Floats(doc.Header[name])); err != nil {
			return written, err
		}
	}
	for _, t := range doc.Tracks {
		for _, name := range sortedKeys(t.Values) {
			if err := set(TrackPath(t.ID, name), Floats(t.Values[name])); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
