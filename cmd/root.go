package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	envGrid     = "GRIDWEIGHT_GRID" // default grid file
	envLogLevel = "GRIDWEIGHT_LOG"  // default log level
)

var (
	gridPath string // Path to the grid database
	logLevel string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "gridweight",
	Short: "Volume weights for stellar model grids",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyEnvDefaults(cmd)
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// applyEnvDefaults fills flags the user did not set from the environment.
func applyEnvDefaults(cmd *cobra.Command) {
	if gridPath == "" {
		gridPath = os.Getenv(envGrid)
	}
	if v := os.Getenv(envLogLevel); v != "" && !cmd.Flags().Changed("log") {
		logLevel = v
	}
}

// requireGrid exits when no grid path was given by flag or environment.
func requireGrid() string {
	if gridPath == "" {
		logrus.Fatalf("No grid given: use --grid or set %s", envGrid)
	}
	return gridPath
}

// Execute runs the CLI root command
func Execute() {
	// .env is optional
	_ = godotenv.Load(".env")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&gridPath, "grid", "", "Path to the grid database (default $"+envGrid+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
