package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stellar-grids/gridweight/weight"
)

// RunConfig is the optional YAML file accepted by `gridweight run --config`.
// Flags set explicitly on the command line take precedence.
type RunConfig struct {
	Grid             string   `yaml:"grid,omitempty"`
	Parameters       []string `yaml:"parameters,omitempty"`
	OversampleFactor int      `yaml:"oversample_factor,omitempty"`
	Seed             *uint64  `yaml:"seed,omitempty"` // pointer: 0 is a valid seed
	Workers          int      `yaml:"workers,omitempty"`
	DryRun           bool     `yaml:"dry_run,omitempty"`
}

// loadRunConfig parses a run config with strict field checking: typos must
// cause errors rather than silently falling back to defaults.
func loadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var rc RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rc); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	return &rc, nil
}

// applyTo overlays the file values onto cfg.
func (rc *RunConfig) applyTo(cfg *weight.Config) {
	if len(rc.Parameters) > 0 {
		cfg.Parameters = append([]string(nil), rc.Parameters...)
	}
	if rc.OversampleFactor != 0 {
		cfg.OversampleFactor = rc.OversampleFactor
	}
	if rc.Seed != nil {
		cfg.Seed = *rc.Seed
	}
	if rc.Workers != 0 {
		cfg.Workers = rc.Workers
	}
	if rc.DryRun {
		cfg.DryRun = true
	}
}
