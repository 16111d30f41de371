package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stellar-grids/gridweight/weight"
)

var (
	sobolDim   int    // Dimension of the printed points
	sobolCount int    // Number of points to print
	sobolSeed  uint64 // Seed of the first point
)

// sobolCmd prints points of the low-discrepancy sequence, one per line
var sobolCmd = &cobra.Command{
	Use:   "sobol",
	Short: "Print points of the Sobol sequence used for weighting",
	Run: func(cmd *cobra.Command, args []string) {
		next, err := printSobol(os.Stdout, sobolDim, sobolCount, sobolSeed)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Debugf("next seed: %d", next)
	},
}

// printSobol writes count points starting at seed and returns the seed that
// follows the last one.
func printSobol(w io.Writer, dim, count int, seed uint64) (uint64, error) {
	seq, err := weight.NewSobol(dim)
	if err != nil {
		return seed, err
	}
	if count < 0 {
		return seed, fmt.Errorf("count must be >= 0, got %d", count)
	}
	p := make([]float64, dim)
	fields := make([]string, dim)
	for i := 0; i < count; i++ {
		next, err := seq.PointAt(p, seed)
		if err != nil {
			return seed, err
		}
		for k, x := range p {
			fields[k] = strconv.FormatFloat(x, 'g', -1, 64)
		}
		fmt.Fprintln(w, strings.Join(fields, " "))
		seed = next
	}
	return seed, nil
}

func init() {
	sobolCmd.Flags().IntVar(&sobolDim, "dim", 2, "Dimension of the points")
	sobolCmd.Flags().IntVar(&sobolCount, "count", 10, "Number of points")
	sobolCmd.Flags().Uint64Var(&sobolSeed, "seed", weight.DefaultSeed, "Seed of the first point")
	rootCmd.AddCommand(sobolCmd)
}
