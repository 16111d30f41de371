package grid

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "tracks/t1/volume_weight", Scalar(0.25)))
	require.NoError(t, s.Set(ctx, "tracks/t1/volume_weight", Scalar(0.75)))

	v, err := s.Get(ctx, "tracks/t1/volume_weight")
	require.NoError(t, err)
	got, ok := v.First()
	assert.True(t, ok)
	assert.Equal(t, 0.75, got)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "header/volume")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestMemoryStore_ReadOnly(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "header/tracks", Strings([]string{"a"})))

	s.SetReadOnly(true)
	err := s.Set(ctx, "header/volume", Floats([]float64{1}))
	assert.True(t, errors.Is(err, ErrReadOnly), "got %v", err)

	// reads still work
	has, err := s.Has(ctx, "header/tracks")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	xs := []float64{1, 2, 3}
	require.NoError(t, s.Set(ctx, "header/massini", Floats(xs)))
	xs[0] = 99

	v, err := s.Get(ctx, "header/massini")
	require.NoError(t, err)
	v.Floats[1] = 42

	again, err := s.Get(ctx, "header/massini")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, again.Floats)
}

func TestMemoryStore_List(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, p := range []string{
		"header/tracks",
		"header/massini",
		"tracks/b/massini",
		"tracks/a/massini",
		"tracks/a/FeHini",
	} {
		require.NoError(t, s.Set(ctx, p, Scalar(1)))
	}

	top, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"header", "tracks"}, top)

	tracks, err := s.List(ctx, "tracks")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tracks)

	fields, err := s.List(ctx, "/tracks/a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"FeHini", "massini"}, fields)
}

func TestValue_Validate(t *testing.T) {
	tests := []struct {
		name    string
		v       Value
		wantErr bool
	}{
		{"scalar", Scalar(1), false},
		{"floats", Floats([]float64{1, 2}), false},
		{"empty floats", Floats(nil), false},
		{"strings", Strings([]string{"volume"}), false},
		{"scalar with two floats", Value{Kind: KindScalar, Floats: []float64{1, 2}}, true},
		{"strings holding floats", Value{Kind: KindStrings, Floats: []float64{1}}, true},
		{"unknown kind", Value{Kind: "matrix"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValue_First(t *testing.T) {
	f, ok := Floats([]float64{1.2, 1.1}).First()
	assert.True(t, ok)
	assert.Equal(t, 1.2, f)

	_, ok = Floats(nil).First()
	assert.False(t, ok)

	_, ok = Strings([]string{"x"}).First()
	assert.False(t, ok)
}
