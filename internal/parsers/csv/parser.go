// Package csv parses delimited text (comma, semicolon or tab separated)
// into canonical events using a character-level state machine rather
// than encoding/csv, so quoting errors are reported precisely and
// short rows are backfilled instead of rejected.
package csv

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chronicle-labs/chronicle-cli/internal/classify"
	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/core/ports/driven"
	"github.com/chronicle-labs/chronicle-cli/internal/dates"
	"github.com/chronicle-labs/chronicle-cli/internal/sanitize"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles delimited tabular text.
type Parser struct{}

// New creates a new delimited-text parser.
func New() *Parser {
	return &Parser{}
}

// Source identifies the events this parser produces.
func (p *Parser) Source() domain.EventSource {
	return domain.SourceCSV
}

// SupportedMIMETypes returns the MIME types this parser handles.
func (p *Parser) SupportedMIMETypes() []string {
	return []string{
		"text/csv",
		"application/csv",
		"text/tab-separated-values",
	}
}

// Priority returns the selection priority. Low because Detect accepts
// anything that passed the MIME gate; structural probes go first.
func (p *Parser) Priority() int {
	return 10
}

// Detect accepts any item that passed the MIME gate.
func (p *Parser) Detect(_ domain.ImportItem) bool {
	return true
}

// Parse tokenizes the item and maps rows to events by auto-detecting
// the header against the synonym tables.
func (p *Parser) Parse(ctx context.Context, item domain.ImportItem, opts domain.ImportOptions) (*driven.ParseResult, error) {
	return p.parse(ctx, item, opts, FieldMap{})
}

// ParseWithMapping is the explicit entry point: the caller names which
// header columns feed which canonical fields, bypassing auto-detection.
func (p *Parser) ParseWithMapping(ctx context.Context, item domain.ImportItem, opts domain.ImportOptions, mapping FieldMap) (*driven.ParseResult, error) {
	if mapping.Title == "" || mapping.Date == "" {
		return nil, fmt.Errorf("%w: field mapping requires title and date columns", domain.ErrInvalidInput)
	}
	return p.parse(ctx, item, opts, mapping)
}

func (p *Parser) parse(_ context.Context, item domain.ImportItem, opts domain.ImportOptions, mapping FieldMap) (*driven.ParseResult, error) {
	opts = opts.Normalise()

	text := string(item.Data)
	rows, err := parseTable(text, sniffDelimiter(text))
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need a header row and at least one data row", domain.ErrUnrecognizedFormat)
	}

	header := rows[0]
	if mapping == (FieldMap{}) {
		mapping, err = autoDetect(header)
		if err != nil {
			return nil, err
		}
	}
	cols := resolveColumns(header, mapping)

	result := &driven.ParseResult{}
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, counting the header
		event, rowErr := p.rowToEvent(item, header, cols, row, rowNum, opts)
		if rowErr != nil {
			result.Errors = append(result.Errors, domain.ImportError{
				ItemID:  fmt.Sprintf("%s:row %d", item.ID, rowNum),
				Message: rowErr.Error(),
			})
			continue
		}
		if event != nil {
			result.Events = append(result.Events, *event)
		}
	}
	return result, nil
}

// columnSet holds resolved column indexes, -1 for absent columns.
type columnSet struct {
	title, date, endDate, description, layer, location, id int
}

func resolveColumns(header []string, m FieldMap) columnSet {
	return columnSet{
		title:       columnIndex(header, m.Title),
		date:        columnIndex(header, m.Date),
		endDate:     columnIndex(header, m.EndDate),
		description: columnIndex(header, m.Description),
		layer:       columnIndex(header, m.Layer),
		location:    columnIndex(header, m.Location),
		id:          columnIndex(header, m.ID),
	}
}

// cell returns the row value at idx, backfilling short rows with the
// empty string.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// rowToEvent converts one data row. A nil event with nil error means
// the row was skipped (missing title or date is not an error); a
// non-nil error names a field that failed validation.
func (p *Parser) rowToEvent(item domain.ImportItem, header []string, cols columnSet, row []string, rowNum int, opts domain.ImportOptions) (*domain.Event, error) {
	title := sanitize.CleanTitle(cell(row, cols.title))
	rawDate := cell(row, cols.date)
	if title == "" || rawDate == "" {
		return nil, nil // skipped, not errored
	}

	startsAt, err := dates.Resolve(rawDate, opts.DateOrder)
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %w", rawDate, err)
	}

	var endsAt *time.Time
	if raw := cell(row, cols.endDate); raw != "" {
		// An unparseable end date degrades the event, it does not drop it.
		if t, endErr := dates.Resolve(raw, opts.DateOrder); endErr == nil {
			endsAt = &t
		}
	}

	description := sanitize.CleanDescription(cell(row, cols.description))
	locationName := sanitize.CleanTitle(cell(row, cols.location))

	layer := domain.Layer(strings.ToLower(strings.TrimSpace(cell(row, cols.layer))))
	if !layer.IsValid() {
		layer = classify.ClassifyFields([]string{title, description, cell(row, cols.layer)}, classify.Options{
			Extra:       opts.ExtraKeywords,
			MinScore:    opts.MinScore,
			HasLocation: locationName != "",
		}).Layer
	}

	localID := cell(row, cols.id)
	if localID == "" {
		localID = domain.SynthesizeLocalID(item.ID, strconv.Itoa(rowNum), title, startsAt.Format(time.RFC3339))
	}

	event := &domain.Event{
		ID:            uuid.New().String(),
		UserID:        opts.UserID,
		Title:         title,
		Description:   description,
		StartsAt:      startsAt,
		EndsAt:        endsAt,
		Layer:         layer,
		EventType:     "record",
		Source:        domain.SourceCSV,
		SourceLocalID: localID,
	}
	if locationName != "" {
		event.Location = &domain.Location{Name: locationName}
	}
	if extras := unmappedCells(header, cols, row); len(extras) > 0 {
		event.Metadata = extras
	}
	return event, nil
}

// unmappedCells collects non-empty values from columns not bound to a
// canonical field, preserving format-specific extras.
func unmappedCells(header []string, cols columnSet, row []string) map[string]any {
	mapped := map[int]bool{
		cols.title: true, cols.date: true, cols.endDate: true,
		cols.description: true, cols.layer: true, cols.location: true,
		cols.id: true,
	}
	var extras map[string]any
	for i, name := range header {
		if mapped[i] || i >= len(row) {
			continue
		}
		value := sanitize.StripControl(row[i])
		if value == "" {
			continue
		}
		if extras == nil {
			extras = make(map[string]any)
		}
		extras[name] = value
	}
	return extras
}
