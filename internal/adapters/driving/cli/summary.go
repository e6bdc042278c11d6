package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

// maxSummaryErrors caps the error listing; the rest is summarised.
const maxSummaryErrors = 10

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true)
	summaryLayerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	summaryErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	summaryDimStyle   = lipgloss.NewStyle().Faint(true)
)

// renderSummary formats an import result for the terminal.
func renderSummary(result *domain.ImportResult) string {
	var b strings.Builder

	b.WriteString(summaryTitleStyle.Render("Import summary"))
	b.WriteString("\n\n")

	stats := result.Stats
	fmt.Fprintf(&b, "  Items:  %d submitted, %d processed, %d skipped\n",
		stats.ItemsSubmitted, stats.ItemsProcessed, stats.ItemsSkipped)
	fmt.Fprintf(&b, "  Events: %d\n", stats.EventsProduced)

	if stats.EventsProduced > 0 {
		b.WriteString("\n")
		for _, layer := range domain.Layers() {
			count := stats.EventsByLayer[layer]
			if count == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s %d\n",
				summaryLayerStyle.Render(fmt.Sprintf("%-14s", layer)), count)
		}
	}

	if len(result.Errors) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s\n", summaryErrorStyle.Render(fmt.Sprintf("%d errors", len(result.Errors))))
		for i, importErr := range result.Errors {
			if i == maxSummaryErrors {
				b.WriteString(summaryDimStyle.Render(
					fmt.Sprintf("    ... and %d more", len(result.Errors)-maxSummaryErrors)))
				b.WriteString("\n")
				break
			}
			fmt.Fprintf(&b, "    %s\n", importErr.Error())
		}
	}

	return b.String()
}
