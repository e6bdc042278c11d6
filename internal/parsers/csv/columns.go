package csv

import (
	"fmt"
	"strings"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

// FieldMap names the header columns feeding each canonical field.
// Title and Date are required; everything else is optional.
type FieldMap struct {
	Title       string
	Date        string
	EndDate     string
	Description string
	Layer       string
	Location    string
	ID          string
}

// Synonym tables for header auto-detection. Per canonical field the
// synonyms are ordered: the first header name that matches wins, so a
// file with both "title" and "summary" binds the title column to "title".
var (
	titleSynonyms       = []string{"title", "name", "summary", "subject", "event", "activity"}
	dateSynonyms        = []string{"date", "start", "start date", "start_date", "starts_at", "started", "datetime", "timestamp", "when", "day", "time"}
	endDateSynonyms     = []string{"end", "end date", "end_date", "ends_at", "ended", "until", "finish"}
	descriptionSynonyms = []string{"description", "notes", "details", "body", "text", "comment", "memo"}
	layerSynonyms       = []string{"layer", "category", "type", "tag", "kind"}
	locationSynonyms    = []string{"location", "place", "where", "venue", "city"}
	idSynonyms          = []string{"id", "uid", "identifier", "ref"}
)

// autoDetect matches header names against the synonym tables and fails
// descriptively when no title-like or date-like column exists.
func autoDetect(header []string) (FieldMap, error) {
	m := FieldMap{
		Title:       findColumn(header, titleSynonyms),
		Date:        findColumn(header, dateSynonyms),
		EndDate:     findColumn(header, endDateSynonyms),
		Description: findColumn(header, descriptionSynonyms),
		Layer:       findColumn(header, layerSynonyms),
		Location:    findColumn(header, locationSynonyms),
		ID:          findColumn(header, idSynonyms),
	}
	if m.Title == "" {
		return FieldMap{}, fmt.Errorf("%w: no title-like column in header %v", domain.ErrUnrecognizedFormat, header)
	}
	if m.Date == "" {
		return FieldMap{}, fmt.Errorf("%w: no date-like column in header %v", domain.ErrUnrecognizedFormat, header)
	}
	return m, nil
}

// findColumn returns the first header name matching the ordered synonym
// list, preserving the header's own casing.
func findColumn(header []string, synonyms []string) string {
	for _, syn := range synonyms {
		for _, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), syn) {
				return name
			}
		}
	}
	return ""
}

// columnIndex resolves a mapped header name to its position, -1 if the
// name is unmapped or missing.
func columnIndex(header []string, name string) int {
	if name == "" {
		return -1
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}
