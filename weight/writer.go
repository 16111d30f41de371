package weight

import (
	"context"
	"fmt"

	"github.com/stellar-grids/gridweight/weight/grid"
)

// WriteWeights stores the weight of every track at
// tracks/<id>/volume_weight, the full vector at header/volume, and marks
// volume as the only active weighting scheme. Existing values are replaced.
//
// Writes are not atomic. The first failing write stops the pass with a
// *StorageWriteError listing the tracks already updated. On success the
// returned slice holds every track id, in write order.
func WriteWeights(ctx context.Context, s grid.Store, ids []string, weights []float64) ([]string, error) {
	if len(ids) != len(weights) {
		return nil, fmt.Errorf("%w: %d track ids but %d weights", ErrInconsistentTrackCount, len(ids), len(weights))
	}

	updated := make([]string, 0, len(ids))
	fail := func(path string, err error) error {
		return &StorageWriteError{Path: path, Updated: updated, Err: err}
	}

	for t, id := range ids {
		path := grid.TrackPath(id, grid.VolumeWeightField)
		if err := s.Set(ctx, path, grid.Scalar(weights[t])); err != nil {
			return updated, fail(path, err)
		}
		updated = append(updated, id)
	}

	if err := s.Set(ctx, grid.HeaderVolume, grid.Floats(weights)); err != nil {
		return updated, fail(grid.HeaderVolume, err)
	}
	if err := s.Set(ctx, grid.HeaderActiveWeights, grid.Strings([]string{grid.VolumeScheme})); err != nil {
		return updated, fail(grid.HeaderActiveWeights, err)
	}
	return updated, nil
}

// ReadWeights reads header/volume back, checking it against header/tracks.
func ReadWeights(ctx context.Context, s grid.Store) (ids []string, weights []float64, err error) {
	idv, err := s.Get(ctx, grid.HeaderTracks)
	if err != nil {
		return nil, nil, fmt.Errorf("reading track list: %w", err)
	}
	if idv.Kind != grid.KindStrings {
		return nil, nil, fmt.Errorf("%w: %s holds %s, want strings", grid.ErrWrongKind, grid.HeaderTracks, idv.Kind)
	}
	wv, err := s.Get(ctx, grid.HeaderVolume)
	if err != nil {
		return nil, nil, fmt.Errorf("reading weights: %w", err)
	}
	if wv.Kind != grid.KindFloats {
		return nil, nil, fmt.Errorf("%w: %s holds %s, want floats", grid.ErrWrongKind, grid.HeaderVolume, wv.Kind)
	}
	if len(idv.Strings) != len(wv.Floats) {
		return nil, nil, fmt.Errorf("%w: %d tracks but %d weights",
			ErrInconsistentTrackCount, len(idv.Strings), len(wv.Floats))
	}
	return idv.Strings, wv.Floats, nil
}
