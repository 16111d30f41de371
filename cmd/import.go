package cmd

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stellar-grids/gridweight/weight/grid"
)

var importFrom string // YAML grid description

// importCmd loads a YAML grid description into a grid database
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Create or update a grid database from a YAML description",
	Run: func(cmd *cobra.Command, args []string) {
		if importFrom == "" {
			logrus.Fatalf("--from is required")
		}
		n, err := importGrid(context.Background(), importFrom, requireGrid(), lockTimeout)
		if err != nil {
			logrus.Fatalf("Import failed: %v", err)
		}
		logrus.Infof("Imported %d entries from %s into %s", n, importFrom, gridPath)
	},
}

func importGrid(ctx context.Context, from, path string, timeout time.Duration) (int, error) {
	doc, err := grid.LoadDocumentFile(from)
	if err != nil {
		return 0, err
	}
	s, err := grid.OpenSQLite(ctx, path, grid.Options{LockTimeout: timeout})
	if err != nil {
		return 0, err
	}
	defer s.Close()
	return grid.ImportDocument(ctx, s, doc)
}

func init() {
	importCmd.Flags().StringVar(&importFrom, "from", "", "YAML grid description")
	importCmd.Flags().DurationVar(&lockTimeout, "lock-timeout", 10*time.Second, "How long to wait for the grid lock")
	rootCmd.AddCommand(importCmd)
}
