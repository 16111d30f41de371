package grid

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `
version: "0.25"
pars_sampled: [massini, FeHini]
header:
  massini: [0.8, 1.2]
tracks:
  - id: track0001/models
    values:
      FeHini: [-0.5, -0.5, -0.5]
  - id: track0002
    values:
      FeHini: [0.1]
`

func TestImportDocument(t *testing.T) {
	ctx := context.Background()
	doc, err := LoadDocument(strings.NewReader(sampleDocument))
	require.NoError(t, err)

	s := NewMemoryStore()
	n, err := ImportDocument(ctx, s, doc)
	require.NoError(t, err)
	// version, pars_sampled, tracks, header/massini, two per-track datasets
	assert.Equal(t, 6, n)

	ids, err := s.Get(ctx, HeaderTracks)
	require.NoError(t, err)
	assert.Equal(t, []string{"track0001/models", "track0002"}, ids.Strings)

	feh, err := s.Get(ctx, "tracks/track0001/FeHini")
	require.NoError(t, err)
	first, ok := feh.First()
	assert.True(t, ok)
	assert.Equal(t, -0.5, first)

	pars, err := s.Get(ctx, HeaderParsSampled)
	require.NoError(t, err)
	assert.Equal(t, []string{"massini", "FeHini"}, pars.Strings)
}

func TestLoadDocument_UnknownField(t *testing.T) {
	_, err := LoadDocument(strings.NewReader("tracks: []\nbogus: 1\n"))
	assert.Error(t, err)
}

func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
	}{
		{"missing id", Document{Tracks: []TrackDocument{{ID: ""}}}},
		{"duplicate group", Document{Tracks: []TrackDocument{{ID: "a/x"}, {ID: "a/y"}}}},
		{"short header", Document{
			Header: map[string][]float64{"massini": {1}},
			Tracks: []TrackDocument{{ID: "a"}, {ID: "b"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportDocument(context.Background(), NewMemoryStore(), &tt.doc)
			assert.Error(t, err)
		})
	}
}
