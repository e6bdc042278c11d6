package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driven"
)

var (
	eventsUser   string
	eventsLayer  string
	eventsSource string
	eventsFrom   string
	eventsTo     string
	eventsLimit  int
	eventsJSON   bool
	eventsYes    bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect stored timeline events",
	Long:  `List, summarise, or clear events produced by previous imports.`,
	RunE:  runEventsList,
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored events",
	RunE:  runEventsList,
}

var eventsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show event counts per layer",
	RunE:  runEventsStats,
}

var eventsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored events",
	RunE:  runEventsClear,
}

func init() {
	for _, cmd := range []*cobra.Command{eventsCmd, eventsListCmd, eventsStatsCmd} {
		cmd.Flags().StringVarP(&eventsUser, "user", "u", "", "filter by user ID")
		cmd.Flags().StringVarP(&eventsLayer, "layer", "l", "", "filter by layer")
		cmd.Flags().StringVarP(&eventsSource, "source", "s", "", "filter by source")
		cmd.Flags().StringVar(&eventsFrom, "from", "", "inclusive start date (YYYY-MM-DD)")
		cmd.Flags().StringVar(&eventsTo, "to", "", "exclusive end date (YYYY-MM-DD)")
	}
	eventsCmd.Flags().IntVarP(&eventsLimit, "limit", "n", 50, "maximum number of events")
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "output events as JSON")
	eventsListCmd.Flags().IntVarP(&eventsLimit, "limit", "n", 50, "maximum number of events")
	eventsListCmd.Flags().BoolVar(&eventsJSON, "json", false, "output events as JSON")
	eventsClearCmd.Flags().BoolVarP(&eventsYes, "yes", "y", false, "skip confirmation")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsStatsCmd)
	eventsCmd.AddCommand(eventsClearCmd)
	rootCmd.AddCommand(eventsCmd)
}

func runEventsList(cmd *cobra.Command, _ []string) error {
	if eventStore == nil {
		return errors.New("event store not configured")
	}

	query, err := buildEventQuery()
	if err != nil {
		return err
	}
	query.Limit = eventsLimit

	events, err := eventStore.Query(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("querying events: %w", err)
	}

	if eventsJSON {
		data, err := json.MarshalIndent(events, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling events: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(events) == 0 {
		cmd.Println("No events found.")
		return nil
	}

	for i := range events {
		printEvent(cmd, &events[i])
	}
	cmd.Printf("\n%d events.\n", len(events))
	return nil
}

func runEventsStats(cmd *cobra.Command, _ []string) error {
	if eventStore == nil {
		return errors.New("event store not configured")
	}

	query, err := buildEventQuery()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	total, err := eventStore.Count(ctx, query)
	if err != nil {
		return fmt.Errorf("counting events: %w", err)
	}

	cmd.Printf("Total: %d events\n", total)
	if total == 0 {
		return nil
	}

	cmd.Println()
	for _, layer := range domain.Layers() {
		layerQuery := query
		layerQuery.Layer = layer
		count, err := eventStore.Count(ctx, layerQuery)
		if err != nil {
			return fmt.Errorf("counting %s events: %w", layer, err)
		}
		if count == 0 {
			continue
		}
		cmd.Printf("  %s %d\n", summaryLayerStyle.Render(fmt.Sprintf("%-14s", layer)), count)
	}
	return nil
}

func runEventsClear(cmd *cobra.Command, _ []string) error {
	if eventStore == nil {
		return errors.New("event store not configured")
	}

	if !eventsYes {
		return errors.New("refusing to clear without --yes")
	}

	if err := eventStore.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clearing events: %w", err)
	}
	cmd.Println("All events cleared.")
	return nil
}

// buildEventQuery translates the shared filter flags into a store query.
func buildEventQuery() (driven.EventQuery, error) {
	query := driven.EventQuery{
		UserID: eventsUser,
		Source: domain.EventSource(eventsSource),
	}

	if eventsLayer != "" {
		layer := domain.Layer(eventsLayer)
		if !layer.IsValid() {
			return query, fmt.Errorf("unknown layer %q (valid: %s)", eventsLayer, validLayerNames())
		}
		query.Layer = layer
	}

	if eventsFrom != "" {
		from, err := time.Parse("2006-01-02", eventsFrom)
		if err != nil {
			return query, fmt.Errorf("invalid --from date %q: use YYYY-MM-DD", eventsFrom)
		}
		query.From = &from
	}
	if eventsTo != "" {
		to, err := time.Parse("2006-01-02", eventsTo)
		if err != nil {
			return query, fmt.Errorf("invalid --to date %q: use YYYY-MM-DD", eventsTo)
		}
		query.To = &to
	}

	return query, nil
}

// printEvent renders one event as a timeline line.
func printEvent(cmd *cobra.Command, event *domain.Event) {
	when := event.StartsAt.Format("2006-01-02 15:04")
	layer := summaryLayerStyle.Render(fmt.Sprintf("[%s]", event.Layer))
	cmd.Printf("%s  %s %s (%s)\n", when, layer, event.Title, event.Source)
	if event.Location != nil && event.Location.Name != "" {
		cmd.Printf("                  at %s\n", event.Location.Name)
	}
}
