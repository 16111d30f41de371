package weight

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ctxCheckInterval is how many points a worker assigns between
// cancellation checks.
const ctxCheckInterval = 1024

// Nearest returns the index of the track closest to p under squared
// Euclidean distance. Ties go to the lowest index. Returns -1 when tracks
// has no rows.
//
// Each candidate accumulates its own running sum and is abandoned as soon as
// the sum reaches the best distance so far; a candidate that only ties the
// best can never replace it, so the pruning preserves the tie-break.
func Nearest(tracks *Matrix, p []float64) int {
	best := -1
	bestDist := math.Inf(1)
	for t := 0; t < tracks.rows; t++ {
		row := tracks.Row(t)
		dist := 0.0
		for j, x := range p {
			diff := x - row[j]
			dist += diff * diff
			if dist >= bestDist {
				break
			}
		}
		if dist < bestDist {
			best, bestDist = t, dist
		}
	}
	return best
}

// Sequence yields the oversampled points for a seed. *Sobol implements it.
type Sequence interface {
	Dim() int
	PointAt(dst []float64, seed uint64) (uint64, error)
}

// AssignPoints draws points oversampled points from seq, starting at seed,
// and counts how many land nearest to each track.
//
// The seed range [seed, seed+points) is split into contiguous blocks, one
// per worker; each worker evaluates its block into private counters that are
// summed when all workers finish. Because seq is a pure function of the seed
// the counts do not depend on the worker count. workers < 1 means one worker
// per CPU. The first worker error cancels the remaining workers.
func AssignPoints(ctx context.Context, tracks *Matrix, seq Sequence, seed uint64, points, workers int) ([]int, error) {
	if tracks.Cols() != seq.Dim() {
		return nil, fmt.Errorf("%w: tracks have %d dimensions, sequence %d",
			ErrInconsistentTrackCount, tracks.Cols(), seq.Dim())
	}
	if points < 0 {
		return nil, fmt.Errorf("negative point count %d", points)
	}
	if points > 0 && (seed > MaxSeed || uint64(points-1) > MaxSeed-seed) {
		return nil, fmt.Errorf("%w: %d points from seed %d", ErrSeedExhausted, points, seed)
	}

	counts := make([]int, tracks.Rows())
	if points == 0 || tracks.Rows() == 0 {
		return counts, nil
	}

	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > points {
		workers = points
	}

	per, rem := points/workers, points%workers
	partials := make([][]int, workers)
	g, gctx := errgroup.WithContext(ctx)

	start := seed
	for w := 0; w < workers; w++ {
		n := per
		if w < rem {
			n++
		}
		first := start
		g.Go(func() error {
			local, err := assignRange(gctx, tracks, seq, first, n)
			if err != nil {
				return err
			}
			partials[w] = local
			logrus.Debugf("assign worker %d: seeds [%d, %d) done", w, first, first+uint64(n))
			return nil
		})
		start += uint64(n)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, local := range partials {
		for t, c := range local {
			counts[t] += c
		}
	}
	return counts, nil
}

// assignRange counts nearest tracks for n consecutive seeds from first.
func assignRange(ctx context.Context, tracks *Matrix, seq Sequence, first uint64, n int) ([]int, error) {
	local := make([]int, tracks.Rows())
	buf := make([]float64, seq.Dim())
	s := first
	for i := 0; i < n; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		next, err := seq.PointAt(buf, s)
		if err != nil {
			return nil, err
		}
		local[Nearest(tracks, buf)]++
		s = next
	}
	return local, nil
}
