package cli

import (
	"testing"

	"github.com/chronicle-labs/chronicle-cli/internal/adapters/driven/storage/memory"
	"github.com/chronicle-labs/chronicle-cli/internal/core/services"
	"github.com/chronicle-labs/chronicle-cli/internal/normalisers/social"
	"github.com/chronicle-labs/chronicle-cli/internal/normalisers/takeout"
	"github.com/chronicle-labs/chronicle-cli/internal/parsers/csv"
	"github.com/chronicle-labs/chronicle-cli/internal/parsers/exif"
	"github.com/chronicle-labs/chronicle-cli/internal/parsers/ics"
)

// setupTestServices wires the full pipeline against in-memory storage
// and returns the stores for assertions. State is restored on cleanup.
func setupTestServices(t *testing.T) (*memory.EventStore, *memory.ConfigStore) {
	t.Helper()

	registry := services.NewParserRegistry()
	registry.Register(csv.New())
	registry.Register(ics.New())
	registry.Register(exif.New())
	registry.Register(takeout.New())
	registry.Register(social.New())

	events := memory.NewEventStore()
	config := memory.NewConfigStore()

	SetServices(services.NewImportService(registry), events, config)

	t.Cleanup(func() {
		SetServices(nil, nil, nil)
		SetEnv(EnvConfig{})
		resetFlags()
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	return events, config
}

// resetFlags restores the package-level flag variables, which outlive a
// single Execute call.
func resetFlags() {
	verboseFlag = false
	versionShort = false
	importUser = ""
	importDateOrder = ""
	importWorkers = 0
	importKeywords = ""
	importDryRun = false
	eventsUser = ""
	eventsLayer = ""
	eventsSource = ""
	eventsFrom = ""
	eventsTo = ""
	eventsLimit = 50
	eventsJSON = false
	eventsYes = false
}
