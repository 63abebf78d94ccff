// Package cli provides the tracker's command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"job-tracker-service/internal/config"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Drives raster jobs through their task flows",
	Long: `Tracker reacts to finished tasks of ingestion, export and seeding jobs.

For every completed or failed task it decides the job's next step: create the
next task of the flow, update progress, complete, suspend or fail the job.
Jobs and tasks live in the Job Manager; the tracker only reads and updates them.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return config.LoadEnvFile()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
