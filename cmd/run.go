package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stellar-grids/gridweight/weight"
	"github.com/stellar-grids/gridweight/weight/grid"
)

var (
	// CLI flags for the weighting run
	runConfigPath    string        // Optional YAML run config
	basisParams      []string      // Basis parameters (default: header/pars_sampled)
	oversampleFactor int           // Oversampled points per track
	seed             uint64        // Seed of the first oversampled point
	workers          int           // Assignment goroutines (0 = one per CPU)
	dryRun           bool          // Compute without writing
	resultsPath      string        // File to save the JSON summary to
	lockTimeout      time.Duration // How long to wait for the grid lock
)

// runCmd computes volume weights and writes them into the grid
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute volume weights and write them into the grid",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, path, err := resolveRunConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		res, err := runWeighting(ctx, path, cfg, lockTimeout)
		if err != nil {
			var werr *weight.StorageWriteError
			if errors.As(err, &werr) {
				logrus.Errorf("%d tracks updated before the failure: %v", len(werr.Updated), werr.Updated)
			}
			logrus.Fatalf("Weighting failed: %v", err)
		}
		if err := printSummary(weight.Summarize(res), resultsPath); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// resolveRunConfig merges defaults, the optional config file and explicitly
// set flags, in that order of precedence (lowest first).
func resolveRunConfig(cmd *cobra.Command) (weight.Config, string, error) {
	cfg := weight.DefaultConfig()
	path := gridPath

	if runConfigPath != "" {
		rc, err := loadRunConfig(runConfigPath)
		if err != nil {
			return cfg, "", err
		}
		rc.applyTo(&cfg)
		if rc.Grid != "" && !cmd.Flags().Changed("grid") {
			path = rc.Grid
		}
	}

	flags := cmd.Flags()
	if flags.Changed("params") {
		cfg.Parameters = basisParams
	}
	if flags.Changed("oversample") {
		cfg.OversampleFactor = oversampleFactor
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = dryRun
	}

	if path == "" {
		path = requireGrid()
	}
	return cfg, path, cfg.Validate()
}

// runWeighting holds the grid open and locked for exactly one run.
func runWeighting(ctx context.Context, path string, cfg weight.Config, timeout time.Duration) (*weight.Result, error) {
	s, err := grid.OpenSQLite(ctx, path, grid.Options{ReadOnly: cfg.DryRun, LockTimeout: timeout})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logrus.Warnf("closing grid: %v", err)
		}
	}()

	logrus.Infof("Opened grid %s", path)
	return weight.Run(ctx, s, cfg)
}

// addRunFlags registers the run flags on c.
func addRunFlags(c *cobra.Command) {
	c.Flags().StringVar(&runConfigPath, "config", "", "YAML run config (flags override its values)")
	c.Flags().StringSliceVar(&basisParams, "params", nil, "Comma-separated basis parameters (default: header/pars_sampled)")
	c.Flags().IntVar(&oversampleFactor, "oversample", weight.DefaultOversampleFactor, "Oversampled points per track")
	c.Flags().Uint64Var(&seed, "seed", weight.DefaultSeed, "Sobol seed of the first oversampled point")
	c.Flags().IntVar(&workers, "workers", 0, "Assignment workers (0 = one per CPU)")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "Compute weights without writing them")
	c.Flags().StringVar(&resultsPath, "results", "", "Also save the JSON summary to this file")
	c.Flags().DurationVar(&lockTimeout, "lock-timeout", 10*time.Second, "How long to wait for the grid lock")
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
