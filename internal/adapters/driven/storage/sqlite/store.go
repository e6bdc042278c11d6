// Package sqlite provides the SQLite-backed event store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/chronicle-labs/chronicle-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Ensure Store implements the interface.
var _ driven.EventStore = (*Store)(nil)

// Store is the SQLite-backed implementation of driven.EventStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.chronicle/data/events.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".chronicle", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "events.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_events.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Insert stores events in one transaction.
func (s *Store) Insert(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events
			(id, user_id, title, description, starts_at, ends_at, layer,
			 event_type, source, source_local_id, location, media_refs, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			title = excluded.title,
			description = excluded.description,
			starts_at = excluded.starts_at,
			ends_at = excluded.ends_at,
			layer = excluded.layer,
			event_type = excluded.event_type,
			source = excluded.source,
			source_local_id = excluded.source_local_id,
			location = excluded.location,
			media_refs = excluded.media_refs,
			metadata = excluded.metadata
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, event := range events {
		locationJSON, err := json.Marshal(event.Location)
		if err != nil {
			return fmt.Errorf("marshalling location: %w", err)
		}
		mediaJSON, err := json.Marshal(event.MediaRefs)
		if err != nil {
			return fmt.Errorf("marshalling media refs: %w", err)
		}
		metadataJSON, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}

		var endsAt any
		if event.EndsAt != nil {
			endsAt = event.EndsAt.UTC()
		}

		if _, err := stmt.ExecContext(ctx,
			event.ID, event.UserID, event.Title, event.Description,
			event.StartsAt.UTC(), endsAt, string(event.Layer),
			event.EventType, string(event.Source), event.SourceLocalID,
			string(locationJSON), string(mediaJSON), string(metadataJSON)); err != nil {
			return fmt.Errorf("inserting event %s: %w", event.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query returns events matching q, ordered by StartsAt ascending.
func (s *Store) Query(ctx context.Context, q driven.EventQuery) ([]domain.Event, error) {
	query := `
		SELECT id, user_id, title, description, starts_at, ends_at, layer,
		       event_type, source, source_local_id, location, media_refs, metadata
		FROM events
	`
	where, args := buildFilter(q)
	query += where + " ORDER BY starts_at ASC, id ASC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event //nolint:prealloc // size unknown from query
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

// Count returns the number of events matching q.
func (s *Store) Count(ctx context.Context, q driven.EventQuery) (int, error) {
	where, args := buildFilter(q)

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return count, nil
}

// Clear removes all events.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM events"); err != nil {
		return fmt.Errorf("clearing events: %w", err)
	}
	return nil
}

// buildFilter translates the query's non-zero fields into a WHERE
// clause. The Limit field is handled by the caller.
func buildFilter(q driven.EventQuery) (string, []any) {
	var clauses []string
	var args []any

	if q.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, q.UserID)
	}
	if q.Layer != "" {
		clauses = append(clauses, "layer = ?")
		args = append(args, string(q.Layer))
	}
	if q.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, string(q.Source))
	}
	if q.From != nil {
		clauses = append(clauses, "starts_at >= ?")
		args = append(args, q.From.UTC())
	}
	if q.To != nil {
		clauses = append(clauses, "starts_at < ?")
		args = append(args, q.To.UTC())
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// scanEvent scans one event row.
func scanEvent(rows *sql.Rows) (*domain.Event, error) {
	var event domain.Event
	var startsAt time.Time
	var endsAt sql.NullTime
	var layer, source string
	var locationJSON, mediaJSON, metadataJSON sql.NullString

	if err := rows.Scan(&event.ID, &event.UserID, &event.Title, &event.Description,
		&startsAt, &endsAt, &layer, &event.EventType, &source,
		&event.SourceLocalID, &locationJSON, &mediaJSON, &metadataJSON); err != nil {
		return nil, fmt.Errorf("scanning event: %w", err)
	}

	event.StartsAt = startsAt.UTC()
	if endsAt.Valid {
		t := endsAt.Time.UTC()
		event.EndsAt = &t
	}
	event.Layer = domain.Layer(layer)
	event.Source = domain.EventSource(source)

	if locationJSON.Valid && locationJSON.String != jsonNull && locationJSON.String != "" {
		var location domain.Location
		if err := json.Unmarshal([]byte(locationJSON.String), &location); err != nil {
			return nil, fmt.Errorf("unmarshaling location: %w", err)
		}
		event.Location = &location
	}
	if mediaJSON.Valid && mediaJSON.String != jsonNull && mediaJSON.String != "" {
		if err := json.Unmarshal([]byte(mediaJSON.String), &event.MediaRefs); err != nil {
			return nil, fmt.Errorf("unmarshaling media refs: %w", err)
		}
	}
	if metadataJSON.Valid && metadataJSON.String != jsonNull && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &event.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return &event, nil
}
