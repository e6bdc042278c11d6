// Command chronicle imports personal data exports into a unified,
// layered timeline of life events.
package main

import (
	"fmt"
	"os"

	configfile "github.com/chronicle-labs/chronicle-cli/internal/adapters/driven/config/file"
	"github.com/chronicle-labs/chronicle-cli/internal/adapters/driven/storage/sqlite"
	"github.com/chronicle-labs/chronicle-cli/internal/adapters/driving/cli"
	"github.com/chronicle-labs/chronicle-cli/internal/core/services"
	"github.com/chronicle-labs/chronicle-cli/internal/normalisers/social"
	"github.com/chronicle-labs/chronicle-cli/internal/normalisers/takeout"
	"github.com/chronicle-labs/chronicle-cli/internal/parsers/csv"
	"github.com/chronicle-labs/chronicle-cli/internal/parsers/exif"
	"github.com/chronicle-labs/chronicle-cli/internal/parsers/ics"
)

// version is overridden at build time via
// -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	envCfg, err := cli.LoadEnv()
	if err != nil {
		return err
	}

	configStore, err := configfile.NewConfigStore(envCfg.ConfigDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	eventStore, err := sqlite.NewStore(envCfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening event store: %w", err)
	}
	defer eventStore.Close()

	registry := services.NewParserRegistry()
	registry.Register(csv.New())
	registry.Register(ics.New())
	registry.Register(exif.New())
	registry.Register(takeout.New())
	registry.Register(social.New())

	cli.SetEnv(envCfg)
	cli.SetServices(services.NewImportService(registry), eventStore, configStore)
	cli.SetVersion(version)

	return cli.Execute()
}
