package weight

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stellar-grids/gridweight/weight/grid"
)

// Result is the outcome of one weighting run.
type Result struct {
	RunID    string
	Version  string
	TrackIDs []string
	Space    *Space
	Seed     uint64
	Points   int
	Counts   []int
	Weights  []float64
	Written  []string // track ids whose volume_weight was written
	DryRun   bool
	Elapsed  time.Duration
}

// Run computes volume weights for every track in s and writes them back.
//
// All reads happen before computation and every numeric check passes
// before the first write, so a failed run never leaves partial numeric
// state behind. Only storage errors can occur mid-write; they are returned
// as *StorageWriteError.
func Run(ctx context.Context, s grid.Store, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	res := &Result{RunID: uuid.New().String(), Seed: cfg.Seed, DryRun: cfg.DryRun}
	log := logrus.WithField("run", res.RunID)

	ts, err := LoadTracks(ctx, s, cfg.Parameters)
	if err != nil {
		return nil, err
	}
	res.Version = ts.Version
	res.TrackIDs = ts.IDs
	log.Infof("Weighting grid version %q: %d tracks over %v", ts.Version, ts.Len(), ts.Parameters)

	tracks, space, err := Normalize(ts.Parameters, ts.Columns)
	if err != nil {
		return nil, err
	}
	res.Space = space
	if tracks.Rows() != ts.Len() {
		return nil, fmt.Errorf("%w: %d track ids but %d parameter rows",
			ErrInconsistentTrackCount, ts.Len(), tracks.Rows())
	}

	seq, err := NewSobol(space.Dim())
	if err != nil {
		return nil, err
	}
	points, err := cfg.PointCount(ts.Len())
	if err != nil {
		return nil, err
	}
	res.Points = points

	log.Infof("Assigning %d oversampled points (factor %d, seed %d)", points, cfg.OversampleFactor, cfg.Seed)
	counts, err := AssignPoints(ctx, tracks, seq, cfg.Seed, points, cfg.Workers)
	if err != nil {
		return nil, err
	}
	if len(counts) != ts.Len() {
		return nil, fmt.Errorf("%w: %d hit counts for %d tracks", ErrInconsistentTrackCount, len(counts), ts.Len())
	}
	res.Counts = counts

	weights, err := NormalizeCounts(counts)
	if err != nil {
		return nil, err
	}
	res.Weights = weights

	if cfg.DryRun {
		log.Info("Dry run: weights not written")
		res.Elapsed = time.Since(start)
		return res, nil
	}

	written, err := WriteWeights(ctx, s, ts.IDs, weights)
	res.Written = written
	res.Elapsed = time.Since(start)
	if err != nil {
		log.Errorf("Write aborted after %d of %d tracks", len(written), ts.Len())
		return res, err
	}
	log.Infof("Wrote volume weights for %d tracks in %v", len(written), res.Elapsed)
	return res, nil
}
