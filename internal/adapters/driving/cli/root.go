// Package cli implements the chronicle command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driven"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driving"
	"github.com/chronicle-labs/chronicle-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired in by main before Execute. Commands guard against a
// missing service so partial wiring fails with a clear message instead
// of a panic.
var (
	importService driving.Importer
	eventStore    driven.EventStore
	configStore   driven.ConfigStore
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "chronicle",
	Short: "Import and organise your personal data exports",
	Long: `Chronicle imports personal data exports (calendars, spreadsheets,
photo metadata, vendor archives) and normalises them into a single
timeline of life events, organised into layers such as work, health
and travel.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// SetServices wires the services the commands depend on.
func SetServices(imp driving.Importer, events driven.EventStore, config driven.ConfigStore) {
	importService = imp
	eventStore = events
	configStore = config
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
