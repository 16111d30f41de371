package weight

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/stellar-grids/gridweight/weight/grid"
)

// TrackSet is the raw input of one weighting run.
type TrackSet struct {
	IDs        []string    // track identifiers, in header/tracks order
	Parameters []string    // basis parameters, in axis order
	Columns    [][]float64 // Columns[d][t] is parameter d of track t
	Version    string      // grid version, if recorded
}

// Len returns the number of tracks.
func (ts *TrackSet) Len() int {
	return len(ts.IDs)
}

// BasisParameters returns params when non-empty, otherwise the sampled
// parameters recorded in header/pars_sampled.
func BasisParameters(ctx context.Context, s grid.Store, params []string) ([]string, error) {
	if len(params) == 0 {
		v, err := s.Get(ctx, grid.HeaderParsSampled)
		if errors.Is(err, grid.ErrNotFound) {
			return nil, fmt.Errorf("%w: no basis parameters given and %s is absent",
				ErrInvalidDimension, grid.HeaderParsSampled)
		}
		if err != nil {
			return nil, err
		}
		if v.Kind != grid.KindStrings {
			return nil, fmt.Errorf("%w: %s holds %s, want strings", grid.ErrWrongKind, grid.HeaderParsSampled, v.Kind)
		}
		params = v.Strings
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: empty basis parameter set", ErrInvalidDimension)
	}

	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p == "" {
			return nil, fmt.Errorf("%w: empty basis parameter name", ErrInvalidDimension)
		}
		if seen[p] {
			return nil, fmt.Errorf("%w: basis parameter %q listed twice", ErrInvalidDimension, p)
		}
		seen[p] = true
	}
	return append([]string(nil), params...), nil
}

// LoadTracks reads the track identifiers and the raw basis parameters of
// every track. All reads happen here, before any computation.
//
// A parameter is read from its header array when present; otherwise the
// first sample of tracks/<id>/<parameter> is taken for every track.
func LoadTracks(ctx context.Context, s grid.Store, params []string) (*TrackSet, error) {
	params, err := BasisParameters(ctx, s, params)
	if err != nil {
		return nil, err
	}

	idv, err := s.Get(ctx, grid.HeaderTracks)
	if err != nil {
		return nil, fmt.Errorf("reading track list: %w", err)
	}
	if idv.Kind != grid.KindStrings {
		return nil, fmt.Errorf("%w: %s holds %s, want strings", grid.ErrWrongKind, grid.HeaderTracks, idv.Kind)
	}
	if err := checkTrackIDs(idv.Strings); err != nil {
		return nil, err
	}

	ts := &TrackSet{
		IDs:        idv.Strings,
		Parameters: params,
		Columns:    make([][]float64, len(params)),
		Version:    readVersion(ctx, s),
	}

	for d, p := range params {
		col, err := loadColumn(ctx, s, p, ts.IDs)
		if err != nil {
			return nil, err
		}
		ts.Columns[d] = col
	}
	return ts, nil
}

// checkTrackIDs rejects ids that would share a volume_weight dataset.
func checkTrackIDs(ids []string) error {
	seen := make(map[string]int, len(ids))
	for t, id := range ids {
		group := grid.TrackGroup(id)
		if group == "" {
			return fmt.Errorf("%w: track %d has an empty id", ErrInvalidTrackID, t)
		}
		if prev, ok := seen[group]; ok {
			return fmt.Errorf("%w: %q and %q are both stored under tracks/%s",
				ErrInvalidTrackID, ids[prev], id, group)
		}
		seen[group] = t
	}
	return nil
}

func loadColumn(ctx context.Context, s grid.Store, param string, ids []string) ([]float64, error) {
	v, err := s.Get(ctx, grid.HeaderPath(param))
	if err == nil {
		if v.Kind != grid.KindFloats {
			return nil, fmt.Errorf("%w: %s holds %s, want floats", grid.ErrWrongKind, grid.HeaderPath(param), v.Kind)
		}
		if len(v.Floats) != len(ids) {
			return nil, fmt.Errorf("%w: %s has %d values for %d tracks",
				ErrInconsistentTrackCount, grid.HeaderPath(param), len(v.Floats), len(ids))
		}
		return v.Floats, nil
	}
	if !errors.Is(err, grid.ErrNotFound) {
		return nil, fmt.Errorf("reading %s: %w", grid.HeaderPath(param), err)
	}

	logrus.Debugf("%s absent; reading first sample of each track", grid.HeaderPath(param))
	col := make([]float64, len(ids))
	for t, id := range ids {
		path := grid.TrackPath(id, param)
		tv, err := s.Get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		x, ok := tv.First()
		if !ok {
			return nil, fmt.Errorf("%s holds no numeric sample", path)
		}
		col[t] = x
	}
	return col, nil
}

// readVersion returns header/version as text, or "" when absent.
func readVersion(ctx context.Context, s grid.Store) string {
	v, err := s.Get(ctx, grid.HeaderVersion)
	if err != nil {
		if !errors.Is(err, grid.ErrNotFound) {
			logrus.Warnf("cannot read %s: %v", grid.HeaderVersion, err)
		}
		return ""
	}
	if len(v.Strings) > 0 {
		return v.Strings[0]
	}
	if x, ok := v.First(); ok {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return ""
}
