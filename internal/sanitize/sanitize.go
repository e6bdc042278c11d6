// Package sanitize provides the shared validation and sanitization
// primitives every parser applies: calendar consistency, the global year
// window, GPS ranges, byte-size ceilings, control-character stripping and
// fixed-length truncation. Centralising them here keeps the skip-vs-error
// policy identical across parsers.
package sanitize

import (
	"fmt"
	"strings"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

// Global year window. Timestamps outside it are rejected, never clamped.
const (
	MinYear = 1900
	MaxYear = 2100
)

// Ellipsis marks truncated free text.
const Ellipsis = "..."

// YearInRange reports whether year falls inside the global window.
func YearInRange(year int) bool {
	return year >= MinYear && year <= MaxYear
}

// IsLeapYear applies the Gregorian 4/100/400 rule. This is the single
// leap-year rule shared by every date-producing component.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the day count for a month, or 0 for an invalid month.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// ValidDate checks the year window, month range and calendar consistency.
func ValidDate(year, month, day int) bool {
	if !YearInRange(year) {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}
	return day >= 1 && day <= DaysInMonth(year, month)
}

// ValidTime checks hour, minute and second ranges.
func ValidTime(hour, minute, second int) bool {
	if hour < 0 || hour > 23 {
		return false
	}
	if minute < 0 || minute > 59 {
		return false
	}
	return second >= 0 && second <= 59
}

// ValidCoordinates checks GPS ranges and rejects the exact (0, 0) point,
// which exports use as a null-island sentinel for "no fix".
func ValidCoordinates(lat, lon float64) bool {
	if lat < -90 || lat > 90 {
		return false
	}
	if lon < -180 || lon > 180 {
		return false
	}
	return lat != 0 || lon != 0
}

// CheckSize rejects an item whose size exceeds limit, naming the item and
// the configured limit. A zero or negative limit disables the check.
func CheckSize(itemID string, size, limit int) error {
	if limit > 0 && size > limit {
		return fmt.Errorf("%w: item %q is %d bytes, limit is %d", domain.ErrTooLarge, itemID, size, limit)
	}
	return nil
}

// StripControl removes control characters from free text, preserving
// newline and carriage return.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// Truncate cuts s to at most max runes, appending the ellipsis marker
// when anything was removed. A zero or negative max disables truncation.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	keep := max - len(Ellipsis)
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + Ellipsis
}

// CleanTitle strips control characters, trims whitespace and truncates to
// the title ceiling. An empty result means the record has no usable title.
func CleanTitle(s string) string {
	return Truncate(strings.TrimSpace(StripControl(s)), domain.MaxTitleLength)
}

// CleanDescription strips control characters (keeping line breaks), trims
// and truncates to the description ceiling.
func CleanDescription(s string) string {
	return Truncate(strings.TrimSpace(StripControl(s)), domain.MaxDescriptionLength)
}
