package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stellar-grids/gridweight/weight"
	"github.com/stellar-grids/gridweight/weight/grid"
)

// showCmd prints the stored volume weights of a grid
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the volume weights stored in a grid",
	Run: func(cmd *cobra.Command, args []string) {
		if err := showWeights(context.Background(), os.Stdout, requireGrid(), lockTimeout); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func showWeights(ctx context.Context, w io.Writer, path string, timeout time.Duration) error {
	s, err := grid.OpenSQLite(ctx, path, grid.Options{ReadOnly: true, LockTimeout: timeout})
	if err != nil {
		return err
	}
	defer s.Close()

	ids, weights, err := weight.ReadWeights(ctx, s)
	if err != nil {
		return err
	}
	active := "-"
	if v, err := s.Get(ctx, grid.HeaderActiveWeights); err == nil {
		active = strings.Join(v.Strings, ",")
	}

	printWeightTable(w, ids, weights)
	fmt.Fprintf(w, "active weights: %s\n", active)
	return nil
}

// printWeightTable aligns track ids by display width, since ids may carry
// non-ASCII labels.
func printWeightTable(w io.Writer, ids []string, weights []float64) {
	width := runewidth.StringWidth("track")
	for _, id := range ids {
		width = max(width, runewidth.StringWidth(id))
	}
	fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight("track", width), "volume_weight")
	for i, id := range ids {
		fmt.Fprintf(w, "%s  %.10g\n", runewidth.FillRight(id, width), weights[i])
	}
}

func init() {
	showCmd.Flags().DurationVar(&lockTimeout, "lock-timeout", 10*time.Second, "How long to wait for the grid lock")
	rootCmd.AddCommand(showCmd)
}
