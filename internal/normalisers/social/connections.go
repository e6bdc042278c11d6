package social

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driven"
	"github.com/chronicle-labs/chronicle-cli/internal/dates"
	"github.com/chronicle-labs/chronicle-cli/internal/normalisers/probe"
	"github.com/chronicle-labs/chronicle-cli/internal/sanitize"
)

// normaliseConnections converts connection records. Each one is a
// relationships-layer event; a record without a name or timestamp is
// skipped.
func normaliseConnections(itemID string, connections []any, opts domain.ImportOptions, result *driven.ParseResult) {
	for _, raw := range connections {
		connection, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		name, _ := probe.String(connection, "name", "displayName")
		name = sanitize.CleanTitle(name)
		if name == "" {
			continue
		}

		ts, ok := probe.Timestamp(connection, "timestamp", "connectedAt", "created_at")
		if !ok {
			continue
		}
		startsAt, err := dates.Resolve(ts, opts.DateOrder)
		if err != nil {
			continue
		}

		result.Events = append(result.Events, domain.Event{
			ID:            uuid.New().String(),
			UserID:        opts.UserID,
			Title:         sanitize.CleanTitle(fmt.Sprintf("Connected with %s", name)),
			StartsAt:      startsAt,
			Layer:         domain.LayerRelationships,
			EventType:     "connection",
			Source:        domain.SourceSocial,
			SourceLocalID: domain.SynthesizeLocalID(itemID, "connection", name, startsAt.Format(time.RFC3339)),
			Metadata:      map[string]any{"contact_name": name},
		})
	}
}
