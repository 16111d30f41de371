package weight

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Space is the normalization frame derived from all tracks of one run.
type Space struct {
	Parameters []string  // axis names, in axis order
	Min        []float64 // per-axis minimum over all tracks
	Max        []float64 // per-axis maximum over all tracks
	Degenerate []string  // axes with zero range, zero-filled
}

// Dim returns the number of axes.
func (s *Space) Dim() int {
	return len(s.Parameters)
}

// IsDegenerate reports whether axis d has zero range.
func (s *Space) IsDegenerate(d int) bool {
	return s.Max[d] == s.Min[d]
}

// TransformTo maps a raw parameter vector into the unit frame. Degenerate
// axes map to 0.
func (s *Space) TransformTo(dst, raw []float64) {
	for d, x := range raw {
		if s.IsDegenerate(d) {
			dst[d] = 0
			continue
		}
		dst[d] = (x - s.Min[d]) / (s.Max[d] - s.Min[d])
	}
}

// Normalize maps raw basis parameters into [0,1]^D. columns[d] holds the
// values of parameters[d] for every track, in track order; the returned
// matrix has one row per track.
//
// An axis whose values are all equal is degenerate: it is zero-filled,
// listed in Space.Degenerate and logged, but does not fail the run.
func Normalize(parameters []string, columns [][]float64) (*Matrix, *Space, error) {
	if len(parameters) < 1 {
		return nil, nil, fmt.Errorf("%w: no basis parameters", ErrInvalidDimension)
	}
	if len(columns) != len(parameters) {
		return nil, nil, fmt.Errorf("%w: %d parameters but %d columns",
			ErrInconsistentTrackCount, len(parameters), len(columns))
	}

	nTracks := len(columns[0])
	for d, col := range columns {
		if len(col) != nTracks {
			return nil, nil, fmt.Errorf("%w: %s has %d values, %s has %d",
				ErrInconsistentTrackCount, parameters[d], len(col), parameters[0], nTracks)
		}
		for t, x := range col {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, nil, fmt.Errorf("%w: %s of track %d is %v", ErrNonFiniteParameter, parameters[d], t, x)
			}
		}
	}

	dim := len(parameters)
	space := &Space{
		Parameters: append([]string(nil), parameters...),
		Min:        make([]float64, dim),
		Max:        make([]float64, dim),
		Degenerate: make([]string, 0),
	}
	out := NewMatrix(nTracks, dim)
	if nTracks == 0 {
		return out, space, nil
	}

	for d, col := range columns {
		space.Min[d] = floats.Min(col)
		space.Max[d] = floats.Max(col)
		if space.IsDegenerate(d) {
			space.Degenerate = append(space.Degenerate, parameters[d])
			logrus.WithFields(logrus.Fields{
				"parameter": parameters[d],
				"value":     space.Min[d],
			}).Warn("degenerate basis parameter: zero range across all tracks, axis zero-filled")
		}
	}

	raw := make([]float64, dim)
	for t := 0; t < nTracks; t++ {
		for d := range columns {
			raw[d] = columns[d][t]
		}
		space.TransformTo(out.Row(t), raw)
	}
	return out, space, nil
}
