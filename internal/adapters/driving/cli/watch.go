package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chronicle-labs/chronicle-cli/internal/connectors/filesystem"
	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Import files as they appear in a directory",
	Long: `Watches a directory and imports each file as it is created or
modified. Useful for dropping exports into a folder as you collect
them. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&importUser, "user", "u", "", "user ID stamped onto imported events")
	watchCmd.Flags().StringVar(&importDateOrder, "date-order", "", "ambiguous date interpretation: mdy or dmy")
	watchCmd.Flags().StringVarP(&importKeywords, "keywords", "k", "", "YAML file with extra classifier keywords per layer")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errors.New("import service not configured")
	}
	if eventStore == nil {
		return errors.New("event store not configured")
	}

	opts, err := buildImportOptions()
	if err != nil {
		return err
	}

	watcher, err := filesystem.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	changes, err := watcher.Watch(ctx, args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (press Ctrl+C to stop)...\n", args[0])

	for path := range changes {
		if err := importOne(ctx, cmd, path, opts); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			cmd.Printf("%s: %v\n", path, err)
		}
	}

	cmd.Println("\nStopped watching.")
	return nil
}

// importOne imports a single announced file and stores its events.
func importOne(ctx context.Context, cmd *cobra.Command, path string, opts domain.ImportOptions) error {
	files, err := filesystem.Collect([]string{path})
	if err != nil {
		return err
	}

	for _, f := range files {
		item := domain.ImportItem{
			ID:          f.Path,
			Name:        f.Name,
			ContentType: f.ContentType,
			Data:        f.Data,
		}

		result, err := importService.ImportItems(ctx, []domain.ImportItem{item}, opts)
		if err != nil {
			return err
		}

		if len(result.Events) > 0 {
			if err := eventStore.Insert(ctx, result.Events); err != nil {
				return fmt.Errorf("storing events: %w", err)
			}
		}

		switch {
		case len(result.Errors) > 0:
			cmd.Printf("%s: %d events, %d errors\n", f.Name, len(result.Events), len(result.Errors))
		case result.Stats.ItemsSkipped > 0:
			cmd.Printf("%s: skipped\n", f.Name)
		default:
			cmd.Printf("%s: %d events\n", f.Name, len(result.Events))
		}
	}
	return nil
}
