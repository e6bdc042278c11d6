package dates

import (
	"fmt"
	"time"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/sanitize"
)

// FromPath scans a file path for an embedded date fragment such as
// photos/2021-06-12/IMG_0042.jpg, 2021/06/12/note.txt or IMG_20210612.jpg.
// It is a low-confidence fallback, used only when no authoritative
// timestamp field exists, so it accepts only complete year-month-day
// fragments and validates them like any other dialect.
func FromPath(path string) (time.Time, error) {
	for i := 0; i+8 <= len(path); i++ {
		if !allDigits(path[i : i+4]) {
			continue
		}
		// Year must not be part of a longer digit run.
		if i > 0 && path[i-1] >= '0' && path[i-1] <= '9' {
			continue
		}
		if t, ok := separatedAt(path, i); ok {
			return t, nil
		}
		if t, ok := compactAt(path, i); ok {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: no date fragment in path %q", domain.ErrInvalidField, path)
}

// separatedAt tries YYYY?MM?DD at offset i where ? is one of - _ / .
// and the same separator is used twice.
func separatedAt(path string, i int) (time.Time, bool) {
	if i+10 > len(path) {
		return time.Time{}, false
	}
	sep := path[i+4]
	if sep != '-' && sep != '_' && sep != '/' && sep != '.' {
		return time.Time{}, false
	}
	if path[i+7] != sep {
		return time.Time{}, false
	}
	if !allDigits(path[i+5:i+7]) || !allDigits(path[i+8:i+10]) {
		return time.Time{}, false
	}
	// The day must end the digit run.
	if i+10 < len(path) && path[i+10] >= '0' && path[i+10] <= '9' {
		return time.Time{}, false
	}
	year := digits(path[i : i+4])
	month := digits(path[i+5 : i+7])
	day := digits(path[i+8 : i+10])
	if !sanitize.ValidDate(year, month, day) {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// compactAt tries YYYYMMDD at offset i.
func compactAt(path string, i int) (time.Time, bool) {
	if !allDigits(path[i : i+8]) {
		return time.Time{}, false
	}
	// The fragment must be exactly eight digits long.
	if i+8 < len(path) && path[i+8] >= '0' && path[i+8] <= '9' {
		return time.Time{}, false
	}
	year := digits(path[i : i+4])
	month := digits(path[i+4 : i+6])
	day := digits(path[i+6 : i+8])
	if !sanitize.ValidDate(year, month, day) {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
