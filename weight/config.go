package weight

import (
	"fmt"
	"math"
)

const (
	// DefaultOversampleFactor is the number of oversampled points per track.
	DefaultOversampleFactor = 100
	// DefaultSeed is the seed of the first oversampled point.
	DefaultSeed uint64 = 2
)

// Config groups the parameters of one weighting run.
type Config struct {
	Parameters       []string // basis parameters; empty = read header/pars_sampled
	OversampleFactor int      // oversampled points per track (must be > 0)
	Seed             uint64   // seed of the first oversampled point
	Workers          int      // assignment goroutines; 0 = one per CPU
	DryRun           bool     // compute weights without writing them
}

// DefaultConfig returns the configuration the grid tooling has always used.
func DefaultConfig() Config {
	return Config{
		OversampleFactor: DefaultOversampleFactor,
		Seed:             DefaultSeed,
	}
}

// Validate checks the configuration before any storage access.
func (c Config) Validate() error {
	if c.OversampleFactor <= 0 {
		return fmt.Errorf("oversample factor must be positive, got %d", c.OversampleFactor)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	if c.Seed > MaxSeed {
		return fmt.Errorf("%w: seed %d exceeds %d", ErrSeedExhausted, c.Seed, MaxSeed)
	}
	return nil
}

// PointCount returns the number of oversampled points for nTracks tracks.
func (c Config) PointCount(nTracks int) (int, error) {
	if nTracks > 0 && c.OversampleFactor > math.MaxInt/nTracks {
		return 0, fmt.Errorf("%d tracks × oversample factor %d overflows", nTracks, c.OversampleFactor)
	}
	return nTracks * c.OversampleFactor, nil
}
