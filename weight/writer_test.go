package weight

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-grids/gridweight/weight/grid"
)

// failingStore fails every write after the first failAfter.
type failingStore struct {
	*grid.MemoryStore
	failAfter int
	writes    int
}

var errDiskFull = errors.New("disk full")

func (f *failingStore) Set(ctx context.Context, path string, v grid.Value) error {
	if f.writes >= f.failAfter {
		return errDiskFull
	}
	f.writes++
	return f.MemoryStore.Set(ctx, path, v)
}

func TestWriteWeights_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := grid.NewMemoryStore()
	ids := []string{"track0001/models", "track0002", "track0003"}
	weights := []float64{0.5, 0.125, 0.375}
	require.NoError(t, s.Set(ctx, grid.HeaderTracks, grid.Strings(ids)))

	updated, err := WriteWeights(ctx, s, ids, weights)
	require.NoError(t, err)
	assert.Equal(t, ids, updated)

	gotIDs, got, err := ReadWeights(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, ids, gotIDs)
	assert.Equal(t, weights, got)

	w, err := s.Get(ctx, "tracks/track0001/volume_weight")
	require.NoError(t, err)
	assert.Equal(t, grid.Scalar(0.5), w)

	active, err := s.Get(ctx, grid.HeaderActiveWeights)
	require.NoError(t, err)
	assert.Equal(t, []string{"volume"}, active.Strings)
}

func TestWriteWeights_OverwritesStaleValues(t *testing.T) {
	ctx := context.Background()
	s := grid.NewMemoryStore()
	ids := []string{"a", "b"}
	require.NoError(t, s.Set(ctx, "tracks/a/volume_weight", grid.Scalar(0.9)))
	require.NoError(t, s.Set(ctx, grid.HeaderVolume, grid.Floats([]float64{0.9, 0.1, 0.0})))
	require.NoError(t, s.Set(ctx, grid.HeaderActiveWeights, grid.Strings([]string{"volume", "dispersion"})))

	_, err := WriteWeights(ctx, s, ids, []float64{0.25, 0.75})
	require.NoError(t, err)

	w, err := s.Get(ctx, "tracks/a/volume_weight")
	require.NoError(t, err)
	assert.Equal(t, grid.Scalar(0.25), w)

	vol, err := s.Get(ctx, grid.HeaderVolume)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, vol.Floats)

	active, err := s.Get(ctx, grid.HeaderActiveWeights)
	require.NoError(t, err)
	assert.Equal(t, []string{"volume"}, active.Strings)
}

func TestWriteWeights_PartialFailureReportsProgress(t *testing.T) {
	// GIVEN a store that accepts only two writes
	s := &failingStore{MemoryStore: grid.NewMemoryStore(), failAfter: 2}
	ids := []string{"a", "b", "c", "d"}

	// WHEN writing four weights
	updated, err := WriteWeights(context.Background(), s, ids, []float64{0.25, 0.25, 0.25, 0.25})

	// THEN the error names the failing path and the tracks already written
	var werr *StorageWriteError
	require.True(t, errors.As(err, &werr), "got %v", err)
	assert.Equal(t, "tracks/c/volume_weight", werr.Path)
	assert.Equal(t, []string{"a", "b"}, werr.Updated)
	assert.Equal(t, []string{"a", "b"}, updated)
	assert.True(t, errors.Is(err, ErrStorageWrite))
	assert.True(t, errors.Is(err, errDiskFull))
	assert.Contains(t, err.Error(), "2 tracks updated")

	// AND the remaining writes were skipped
	has, _ := s.Has(context.Background(), grid.HeaderVolume)
	assert.False(t, has)
}

func TestWriteWeights_HeaderFailureAfterAllTracks(t *testing.T) {
	s := &failingStore{MemoryStore: grid.NewMemoryStore(), failAfter: 2}
	_, err := WriteWeights(context.Background(), s, []string{"a", "b"}, []float64{0.5, 0.5})

	var werr *StorageWriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, grid.HeaderVolume, werr.Path)
	assert.Equal(t, []string{"a", "b"}, werr.Updated)
}

func TestWriteWeights_ReadOnly(t *testing.T) {
	s := grid.NewMemoryStore()
	s.SetReadOnly(true)
	_, err := WriteWeights(context.Background(), s, []string{"a"}, []float64{1})
	assert.True(t, errors.Is(err, ErrStorageWrite))
	assert.True(t, errors.Is(err, grid.ErrReadOnly))
}

func TestWriteWeights_LengthMismatch(t *testing.T) {
	s := grid.NewMemoryStore()
	_, err := WriteWeights(context.Background(), s, []string{"a", "b"}, []float64{1})
	assert.True(t, errors.Is(err, ErrInconsistentTrackCount))
	assert.Equal(t, 0, s.Len(), "nothing may be written on a count mismatch")
}

func TestReadWeights_WrongKind(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		tracks grid.Value
		volume grid.Value
	}{
		{"volume holds strings", grid.Strings([]string{"a"}), grid.Strings([]string{"0.5"})},
		{"volume holds a scalar", grid.Strings([]string{"a"}), grid.Scalar(1)},
		{"tracks hold floats", grid.Floats([]float64{1}), grid.Floats([]float64{1})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := grid.NewMemoryStore()
			require.NoError(t, s.Set(ctx, grid.HeaderTracks, tc.tracks))
			require.NoError(t, s.Set(ctx, grid.HeaderVolume, tc.volume))

			_, _, err := ReadWeights(ctx, s)
			assert.True(t, errors.Is(err, grid.ErrWrongKind), "got %v", err)
			assert.False(t, errors.Is(err, ErrInconsistentTrackCount), "got %v", err)
		})
	}
}
