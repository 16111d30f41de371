package weight

import "gonum.org/v1/gonum/floats"

// Summary aggregates statistics of a weighting run for reporting.
type Summary struct {
	RunID          string   `json:"run_id"`
	Version        string   `json:"grid_version,omitempty"`
	Tracks         int      `json:"tracks"`
	Parameters     []string `json:"parameters"`
	DegenerateAxes []string `json:"degenerate_axes"`
	Seed           uint64   `json:"seed"`
	Points         int      `json:"oversampled_points"`
	ZeroHitTracks  int      `json:"zero_hit_tracks"`
	MinWeight      float64  `json:"min_weight"`
	MaxWeight      float64  `json:"max_weight"`
	MeanWeight     float64  `json:"mean_weight"`
	WeightSum      float64  `json:"weight_sum"`
	TracksWritten  int      `json:"tracks_written"`
	DryRun         bool     `json:"dry_run"`
	ElapsedSec     float64  `json:"elapsed_sec"`
}

// Summarize computes aggregate statistics from a Result.
// Safe for nil or partial results (returns zero-value fields).
func Summarize(r *Result) *Summary {
	summary := &Summary{
		Parameters:     make([]string, 0),
		DegenerateAxes: make([]string, 0),
	}
	if r == nil {
		return summary
	}

	summary.RunID = r.RunID
	summary.Version = r.Version
	summary.Tracks = len(r.TrackIDs)
	summary.Seed = r.Seed
	summary.Points = r.Points
	summary.TracksWritten = len(r.Written)
	summary.DryRun = r.DryRun
	summary.ElapsedSec = r.Elapsed.Seconds()
	if r.Space != nil {
		summary.Parameters = append(summary.Parameters, r.Space.Parameters...)
		summary.DegenerateAxes = append(summary.DegenerateAxes, r.Space.Degenerate...)
	}

	for _, c := range r.Counts {
		if c == 0 {
			summary.ZeroHitTracks++
		}
	}

	if len(r.Weights) > 0 {
		summary.MinWeight = floats.Min(r.Weights)
		summary.MaxWeight = floats.Max(r.Weights)
		summary.WeightSum = floats.Sum(r.Weights)
		summary.MeanWeight = summary.WeightSum / float64(len(r.Weights))
	}
	return summary
}
