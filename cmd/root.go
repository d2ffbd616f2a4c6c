package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel   string // Log verbosity level
	configPath string // Optional YAML config file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "extsort-sim",
	Short: "Step-by-step balanced K-way external merge sort",
	Long: "Sorts float64 data with a balanced K-way external merge sort, emitting every\n" +
		"comparison, selection and simulated disk transfer as a replayable step.",
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging applies --log, falling back to the config file's level when
// the flag was not given explicitly.
func setupLogging(cmd *cobra.Command, fc *FileConfig) {
	level := logLevel
	if fc != nil && fc.Log != "" && !cmd.Flags().Changed("log") {
		level = fc.Log
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", level)
	}
	logrus.SetLevel(parsed)
}

// loadConfigOrExit reads --config if it was given.
func loadConfigOrExit() *FileConfig {
	if configPath == "" {
		return nil
	}
	fc, err := LoadFileConfig(configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	return fc
}

// init sets up CLI flags shared by every subcommand
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (explicit flags override it)")
}
