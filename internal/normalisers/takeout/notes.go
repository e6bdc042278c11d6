package takeout

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chronicle-labs/chronicle-cli/internal/classify"
	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driven"
	"github.com/chronicle-labs/chronicle-cli/internal/dates"
	"github.com/chronicle-labs/chronicle-cli/internal/normalisers/probe"
	"github.com/chronicle-labs/chronicle-cli/internal/sanitize"
)

// Checklist markers, one per line in the rendered description.
const (
	checkedMarker   = "[x] "
	uncheckedMarker = "[ ] "
)

// normaliseNotes converts exported notes. Trashed notes are excluded;
// notes with neither text nor checklist nor title, or without any
// usable timestamp, are skipped. The last-edited timestamp is preferred
// over the creation one.
func normaliseNotes(itemID string, notes []any, opts domain.ImportOptions, result *driven.ParseResult) {
	for _, raw := range notes {
		note, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if trashed, ok := probe.Bool(note, "isTrashed", "trashed"); ok && trashed {
			continue
		}

		title, _ := probe.String(note, "title", "name")
		body := noteBody(note)
		if title == "" && body == "" {
			continue
		}

		edited, _ := probe.Timestamp(note, "editedTimestamp", "userEditedTimestamp", "updated")
		created, _ := probe.Timestamp(note, "createdTimestamp", "created")
		startsAt, err := dates.BestOf(opts.DateOrder, edited, created)
		if err != nil {
			continue
		}

		// The full text lives in the description; the title only ever
		// holds a truncated first line.
		description := sanitize.CleanDescription(body)
		title = sanitize.CleanTitle(title)
		if title == "" {
			title = sanitize.CleanTitle(firstLine(body))
		}

		layer := classify.ClassifyFields([]string{title, description}, classify.Options{
			Extra:    opts.ExtraKeywords,
			MinScore: opts.MinScore,
		}).Layer

		localID, ok := probe.String(note, "id", "noteId")
		if !ok || localID == "" {
			localID = domain.SynthesizeLocalID(itemID, "note", title, startsAt.Format(time.RFC3339))
		}

		result.Events = append(result.Events, domain.Event{
			ID:            uuid.New().String(),
			UserID:        opts.UserID,
			Title:         title,
			Description:   description,
			StartsAt:      startsAt,
			Layer:         layer,
			EventType:     "note",
			Source:        domain.SourceTakeout,
			SourceLocalID: localID,
		})
	}
}

// noteBody renders the note content: free text as-is, a checklist as
// one marked line per entry.
func noteBody(note map[string]any) string {
	if text, ok := probe.String(note, "textContent", "text", "content"); ok {
		return text
	}

	entries, ok := probe.Slice(note, "listContent", "checklist")
	if !ok {
		return ""
	}

	var lines []string
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		text, ok := probe.String(entry, "text", "item")
		if !ok || text == "" {
			continue
		}
		marker := uncheckedMarker
		if checked, ok := probe.Bool(entry, "isChecked", "checked", "done"); ok && checked {
			marker = checkedMarker
		}
		lines = append(lines, marker+text)
	}
	return strings.Join(lines, "\n")
}

// firstLine returns the text up to the first line break.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
