// Package testutil provides synthetic grids shared by the weight and cmd
// test packages.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/stellar-grids/gridweight/weight/grid"
)

// GridSpec describes a synthetic grid: one row of basis values per track.
type GridSpec struct {
	Parameters []string
	Rows       [][]float64 // Rows[t][d] is parameter d of track t
	PerTrack   bool        // store parameters per track instead of as header arrays
	Sampled    bool        // record Parameters in header/pars_sampled
}

// TrackID returns the identifier of synthetic track t.
func TrackID(t int) string {
	return fmt.Sprintf("track%04d", t+1)
}

// Populate writes spec into s.
func Populate(t testing.TB, s grid.Store, spec GridSpec) []string {
	t.Helper()
	ids := make([]string, len(spec.Rows))
	for i := range spec.Rows {
		ids[i] = TrackID(i)
	}
	mustSet(t, s, grid.HeaderTracks, grid.Strings(ids))
	if spec.Sampled {
		mustSet(t, s, grid.HeaderParsSampled, grid.Strings(spec.Parameters))
	}

	for d, p := range spec.Parameters {
		if spec.PerTrack {
			for i, row := range spec.Rows {
				// a short time series whose first sample is the basis value
				mustSet(t, s, grid.TrackPath(ids[i], p), grid.Floats([]float64{row[d], row[d] * 1.01, row[d] * 1.02}))
			}
			continue
		}
		col := make([]float64, len(spec.Rows))
		for i, row := range spec.Rows {
			col[i] = row[d]
		}
		mustSet(t, s, grid.HeaderPath(p), grid.Floats(col))
	}
	return ids
}

// NewMemoryGrid returns an in-memory store populated from spec.
func NewMemoryGrid(t testing.TB, spec GridSpec) (*grid.MemoryStore, []string) {
	t.Helper()
	s := grid.NewMemoryStore()
	ids := Populate(t, s, spec)
	return s, ids
}

// TriangleGrid is the 2-D grid with tracks at (0,0), (0,1) and (1,1).
func TriangleGrid() GridSpec {
	return GridSpec{
		Parameters: []string{"massini", "FeHini"},
		Rows:       [][]float64{{0, 0}, {0, 1}, {1, 1}},
	}
}

func mustSet(t testing.TB, s grid.Store, path string, v grid.Value) {
	t.Helper()
	if err := s.Set(context.Background(), path, v); err != nil {
		t.Fatalf("set %s: %v", path, err)
	}
}
