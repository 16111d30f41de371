package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/stellar-grids/gridweight/weight"
)

// printSummary writes the run summary as JSON to stdout and, when
// resultsPath is set, to that file.
func printSummary(s *weight.Summary, resultsPath string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	fmt.Println("=== Weighting Summary ===")
	fmt.Println(string(data))

	if resultsPath != "" {
		if err := os.WriteFile(resultsPath, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("writing results to %s: %w", resultsPath, err)
		}
	}
	return nil
}
