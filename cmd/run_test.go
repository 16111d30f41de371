package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-grids/gridweight/weight"
)

const triangleGrid = `
version: "1.0"
pars_sampled: [massini, FeHini]
header:
  massini: [0, 0, 1]
  FeHini: [0, 1, 1]
tracks:
  - id: track0001
  - id: track0002
  - id: track0003
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newRunCommand returns a fresh command carrying the run flags, so flag
// Changed state does not leak between tests.
func newRunCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	runConfigPath = ""
	c := &cobra.Command{Use: "run"}
	addRunFlags(c)
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestLoadRunConfig_UnknownFieldRejected(t *testing.T) {
	// GIVEN a run config with a misspelled key
	path := writeFile(t, "run.yaml", "oversample_factr: 10\n")

	// WHEN it is loaded
	_, err := loadRunConfig(path)

	// THEN the typo is reported instead of silently ignored
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oversample_factr")
}

func TestRunConfig_ApplyTo_ZeroSeedIsHonoured(t *testing.T) {
	path := writeFile(t, "run.yaml", "seed: 0\nparameters: [massini]\n")
	rc, err := loadRunConfig(path)
	require.NoError(t, err)

	cfg := weight.DefaultConfig()
	rc.applyTo(&cfg)

	assert.Equal(t, uint64(0), cfg.Seed)
	assert.Equal(t, []string{"massini"}, cfg.Parameters)
	assert.Equal(t, weight.DefaultOversampleFactor, cfg.OversampleFactor)
}

func TestResolveRunConfig_FlagsOverrideFile(t *testing.T) {
	gridPath = "grid.db"
	t.Cleanup(func() { gridPath = "" })

	// GIVEN a config file and a command line that both set the seed
	cfgPath := writeFile(t, "run.yaml", "seed: 7\noversample_factor: 20\nworkers: 2\n")
	c := newRunCommand(t, "--config", cfgPath, "--seed", "11")

	// WHEN the configuration is resolved
	cfg, path, err := resolveRunConfig(c)
	require.NoError(t, err)

	// THEN the explicit flag wins and unset flags keep the file values
	assert.Equal(t, "grid.db", path)
	assert.Equal(t, uint64(11), cfg.Seed)
	assert.Equal(t, 20, cfg.OversampleFactor)
	assert.Equal(t, 2, cfg.Workers)
}

func TestResolveRunConfig_GridFromFile(t *testing.T) {
	gridPath = ""
	cfgPath := writeFile(t, "run.yaml", "grid: from-file.db\n")
	c := newRunCommand(t, "--config", cfgPath)

	_, path, err := resolveRunConfig(c)
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", path)
}

func TestResolveRunConfig_InvalidOversample(t *testing.T) {
	gridPath = "grid.db"
	t.Cleanup(func() { gridPath = "" })
	c := newRunCommand(t, "--oversample", "0")

	_, _, err := resolveRunConfig(c)
	assert.Error(t, err)
}

func TestImportRunShow(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "grid.db")
	docPath := writeFile(t, "grid.yaml", triangleGrid)

	// GIVEN a grid imported from YAML
	n, err := importGrid(ctx, docPath, dbPath, time.Second)
	require.NoError(t, err)
	assert.Positive(t, n)

	// WHEN weights are computed with the default seed and oversampling
	res, err := runWeighting(ctx, dbPath, weight.DefaultConfig(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, []int{117, 75, 108}, res.Counts)

	// THEN show prints every track with its stored weight
	var out bytes.Buffer
	require.NoError(t, showWeights(ctx, &out, dbPath, time.Second))
	assert.Contains(t, out.String(), "track0001  0.39")
	assert.Contains(t, out.String(), "track0002  0.25")
	assert.Contains(t, out.String(), "track0003  0.36")
	assert.Contains(t, out.String(), "active weights: volume")
}

func TestRunWeighting_DryRunLeavesGridUnweighted(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "grid.db")
	_, err := importGrid(ctx, writeFile(t, "grid.yaml", triangleGrid), dbPath, time.Second)
	require.NoError(t, err)

	cfg := weight.DefaultConfig()
	cfg.DryRun = true
	res, err := runWeighting(ctx, dbPath, cfg, time.Second)
	require.NoError(t, err)
	assert.True(t, res.DryRun)

	var out bytes.Buffer
	assert.Error(t, showWeights(ctx, &out, dbPath, time.Second))
}

func TestRunWeighting_MissingGrid(t *testing.T) {
	cfg := weight.DefaultConfig()
	cfg.DryRun = true
	_, err := runWeighting(context.Background(), filepath.Join(t.TempDir(), "nope.db"), cfg, time.Second)
	assert.Error(t, err)
}

func TestPrintSobol(t *testing.T) {
	var out bytes.Buffer
	next, err := printSobol(&out, 1, 4, 0)
	require.NoError(t, err)

	assert.Equal(t, "0\n0.5\n0.75\n0.25\n", out.String())
	assert.Equal(t, uint64(4), next)
}

func TestPrintSobol_Errors(t *testing.T) {
	var out bytes.Buffer
	_, err := printSobol(&out, 0, 1, 0)
	assert.ErrorIs(t, err, weight.ErrInvalidDimension)

	_, err = printSobol(&out, 2, 1, weight.MaxSeed+1)
	assert.ErrorIs(t, err, weight.ErrSeedExhausted)
}

func TestPrintWeightTable_AlignsWideIDs(t *testing.T) {
	var out bytes.Buffer
	printWeightTable(&out, []string{"a", "星1"}, []float64{0.5, 0.5})
	assert.Equal(t, "track  volume_weight\na      0.5\n星1    0.5\n", out.String())
}
