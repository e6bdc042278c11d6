// Package dates resolves the date dialects found across personal data
// exports into a single validated timestamp.
//
// Each dialect is a Recognizer: a cheap structural test followed by
// component extraction and calendar validation. Recognizers are tried in
// a fixed order and the first structural match decides the outcome, so
// adding a dialect cannot alter another's behaviour. Out-of-range or
// calendar-invalid values are rejected, never clamped.
package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/sanitize"
)

// Recognizer is a self-contained format-detection-plus-extraction unit
// for one date dialect.
type Recognizer interface {
	// Name identifies the dialect in diagnostics.
	Name() string

	// Match is the structural test: length, separators, digit grouping.
	// It must be cheap and must not validate calendar consistency.
	Match(value string) bool

	// Parse extracts components and validates them. It is only called
	// after Match returned true.
	Parse(value string) (time.Time, error)
}

// Chain returns the default recognizer chain in priority order.
// The order disambiguates slash-separated dates and is supplied by the
// caller, never guessed from the data.
func Chain(order domain.DateOrder) []Recognizer {
	return []Recognizer{
		isoRecognizer{},
		exifRecognizer{},
		compactRecognizer{},
		slashRecognizer{order: order},
		dashDotRecognizer{},
		monthYearRecognizer{},
		yearRecognizer{},
		epochRecognizer{},
	}
}

// Resolve runs value through the default chain. The first recognizer
// whose structural test matches decides the outcome: a definitive
// timestamp or a definitive failure.
func Resolve(value string, order domain.DateOrder) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", domain.ErrInvalidField)
	}
	for _, r := range Chain(order) {
		if !r.Match(trimmed) {
			continue
		}
		t, err := r.Parse(trimmed)
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: %w", r.Name(), err)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", domain.ErrInvalidField, value)
}

// BestOf returns the first candidate that is present and resolves,
// supporting priority chains such as preferring an original-capture
// timestamp over a file-modified timestamp.
func BestOf(order domain.DateOrder, candidates ...string) (time.Time, error) {
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if t, err := Resolve(c, order); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: no valid date among candidates", domain.ErrInvalidField)
}

// newDate builds a timestamp after running the shared calendar checks.
func newDate(year, month, day, hour, minute, second int, loc *time.Location) (time.Time, error) {
	if !sanitize.ValidDate(year, month, day) {
		return time.Time{}, fmt.Errorf("%w: invalid date %04d-%02d-%02d", domain.ErrInvalidField, year, month, day)
	}
	if !sanitize.ValidTime(hour, minute, second) {
		return time.Time{}, fmt.Errorf("%w: invalid time %02d:%02d:%02d", domain.ErrInvalidField, hour, minute, second)
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc), nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func digits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
