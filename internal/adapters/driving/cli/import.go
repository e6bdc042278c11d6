package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chronicle-labs/chronicle-cli/internal/connectors/filesystem"
	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

var (
	importUser      string
	importDateOrder string
	importWorkers   int
	importKeywords  string
	importDryRun    bool
)

var importCmd = &cobra.Command{
	Use:   "import [path...]",
	Short: "Import data exports into your timeline",
	Long: `Imports one or more files or directories of personal data exports.
Directories are walked recursively. Supported inputs include CSV
spreadsheets, ICS calendars, JPEG photos and vendor JSON archives;
anything unrecognised is skipped and reported in the summary.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importUser, "user", "u", "", "user ID stamped onto imported events")
	importCmd.Flags().StringVar(&importDateOrder, "date-order", "", "ambiguous date interpretation: mdy or dmy")
	importCmd.Flags().IntVarP(&importWorkers, "workers", "w", 0, "number of items parsed concurrently")
	importCmd.Flags().StringVarP(&importKeywords, "keywords", "k", "", "YAML file with extra classifier keywords per layer")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse and classify without storing events")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errors.New("import service not configured")
	}

	opts, err := buildImportOptions()
	if err != nil {
		return err
	}

	files, err := filesystem.Collect(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		cmd.Println("Nothing to import.")
		return nil
	}

	items := make([]domain.ImportItem, 0, len(files))
	for _, f := range files {
		items = append(items, domain.ImportItem{
			ID:          f.Path,
			Name:        f.Name,
			ContentType: f.ContentType,
			Data:        f.Data,
		})
	}

	ctx := cmd.Context()
	result, importErr := importService.ImportItems(ctx, items, opts)

	cmd.Print(renderSummary(result))

	if importErr != nil {
		return fmt.Errorf("import aborted: %w", importErr)
	}

	if importDryRun || len(result.Events) == 0 {
		return nil
	}
	if eventStore == nil {
		return errors.New("event store not configured")
	}
	if err := eventStore.Insert(ctx, result.Events); err != nil {
		return fmt.Errorf("storing events: %w", err)
	}
	cmd.Printf("\nStored %d events.\n", len(result.Events))
	return nil
}

// buildImportOptions resolves import settings from, in order of
// precedence: explicit flags, environment, the config file, built-in
// defaults.
func buildImportOptions() (domain.ImportOptions, error) {
	var opts domain.ImportOptions

	opts.UserID = importUser
	if opts.UserID == "" {
		opts.UserID = envCfg.UserID
	}
	if opts.UserID == "" {
		opts.UserID = configString("import.user")
	}

	order := importDateOrder
	if order == "" {
		order = envCfg.DateOrder
	}
	if order == "" {
		order = configString("import.date_order")
	}
	if order != "" {
		opts.DateOrder = domain.DateOrder(order)
		if !opts.DateOrder.IsValid() {
			return opts, fmt.Errorf("invalid date order %q (valid: mdy, dmy)", order)
		}
	}

	opts.Workers = importWorkers
	if opts.Workers == 0 {
		opts.Workers = envCfg.Workers
	}
	if opts.Workers == 0 {
		opts.Workers = configInt("import.workers")
	}

	keywordsPath := importKeywords
	if keywordsPath == "" {
		keywordsPath = configString("import.keywords")
	}
	if keywordsPath != "" {
		keywords, err := loadKeywords(keywordsPath)
		if err != nil {
			return opts, err
		}
		opts.ExtraKeywords = keywords
	}

	return opts, nil
}

// configString reads a config value, tolerating an unwired store.
func configString(key string) string {
	if configStore == nil {
		return ""
	}
	return configStore.GetString(key)
}

// configInt reads a config value, tolerating an unwired store.
func configInt(key string) int {
	if configStore == nil {
		return 0
	}
	return configStore.GetInt(key)
}
