package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
	"github.com/chronicle-labs/chronicle-cli/internal/sanitize"
)

// isoRecognizer handles ISO-8601 dates and date-times, with or without
// a zone designator: 2024-01-15, 2024-01-15T10:30:00Z,
// 2024-01-15 10:30:00, 2024-01-15T10:30:00+02:00.
type isoRecognizer struct{}

func (isoRecognizer) Name() string { return "iso8601" }

func (isoRecognizer) Match(value string) bool {
	if len(value) < 10 {
		return false
	}
	if value[4] != '-' || value[7] != '-' {
		return false
	}
	if !allDigits(value[0:4]) || !allDigits(value[5:7]) || !allDigits(value[8:10]) {
		return false
	}
	if len(value) == 10 {
		return true
	}
	return value[10] == 'T' || value[10] == ' '
}

func (isoRecognizer) Parse(value string) (time.Time, error) {
	year := digits(value[0:4])
	month := digits(value[5:7])
	day := digits(value[8:10])

	if len(value) == 10 {
		return newDate(year, month, day, 0, 0, 0, time.UTC)
	}

	rest := value[11:]
	rest, loc, err := splitZone(rest)
	if err != nil {
		return time.Time{}, err
	}

	// Drop fractional seconds.
	if idx := strings.IndexByte(rest, '.'); idx >= 0 {
		rest = rest[:idx]
	}

	hour, minute, second, err := splitClock(rest)
	if err != nil {
		return time.Time{}, err
	}
	return newDate(year, month, day, hour, minute, second, loc)
}

// splitZone strips a trailing zone designator (Z, +HH:MM, +HHMM, -HH:MM,
// -HHMM) and returns the matching location. No designator means UTC, which
// keeps resolution deterministic regardless of the host timezone.
func splitZone(clock string) (string, *time.Location, error) {
	if strings.HasSuffix(clock, "Z") {
		return clock[:len(clock)-1], time.UTC, nil
	}
	for i := len(clock) - 1; i > 0; i-- {
		c := clock[i]
		if c == '+' || c == '-' {
			offset := clock[i+1:]
			offset = strings.Replace(offset, ":", "", 1)
			if len(offset) != 4 || !allDigits(offset) {
				return "", nil, fmt.Errorf("%w: malformed zone offset %q", domain.ErrInvalidField, clock[i:])
			}
			hours := digits(offset[0:2])
			minutes := digits(offset[2:4])
			if hours > 14 || minutes > 59 {
				return "", nil, fmt.Errorf("%w: zone offset out of range %q", domain.ErrInvalidField, clock[i:])
			}
			seconds := hours*3600 + minutes*60
			if c == '-' {
				seconds = -seconds
			}
			return clock[:i], time.FixedZone(clock[i:], seconds), nil
		}
		if c == ':' || (c >= '0' && c <= '9') || c == '.' {
			continue
		}
		break
	}
	return clock, time.UTC, nil
}

// splitClock parses HH:MM or HH:MM:SS.
func splitClock(clock string) (hour, minute, second int, err error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: malformed time %q", domain.ErrInvalidField, clock)
	}
	for _, p := range parts {
		if len(p) != 2 || !allDigits(p) {
			return 0, 0, 0, fmt.Errorf("%w: malformed time %q", domain.ErrInvalidField, clock)
		}
	}
	hour = digits(parts[0])
	minute = digits(parts[1])
	if len(parts) == 3 {
		second = digits(parts[2])
	}
	return hour, minute, second, nil
}

// exifRecognizer handles the colon-delimited form embedded photo metadata
// uses: "2024:01:15 10:30:00" or date-only "2024:01:15".
type exifRecognizer struct{}

func (exifRecognizer) Name() string { return "exif" }

func (exifRecognizer) Match(value string) bool {
	if len(value) != 10 && len(value) != 19 {
		return false
	}
	if value[4] != ':' || value[7] != ':' {
		return false
	}
	if !allDigits(value[0:4]) || !allDigits(value[5:7]) || !allDigits(value[8:10]) {
		return false
	}
	return len(value) == 10 || value[10] == ' '
}

func (exifRecognizer) Parse(value string) (time.Time, error) {
	year := digits(value[0:4])
	month := digits(value[5:7])
	day := digits(value[8:10])
	if len(value) == 10 {
		return newDate(year, month, day, 0, 0, 0, time.UTC)
	}
	hour, minute, second, err := splitClock(value[11:])
	if err != nil {
		return time.Time{}, err
	}
	return newDate(year, month, day, hour, minute, second, time.UTC)
}

// compactRecognizer handles the calendar-text compact forms: 20240115,
// 20240115T103000 and 20240115T103000Z.
type compactRecognizer struct{}

func (compactRecognizer) Name() string { return "compact" }

func (compactRecognizer) Match(value string) bool {
	switch len(value) {
	case 8:
		return allDigits(value)
	case 15:
		return allDigits(value[0:8]) && value[8] == 'T' && allDigits(value[9:15])
	case 16:
		return allDigits(value[0:8]) && value[8] == 'T' && allDigits(value[9:15]) && value[15] == 'Z'
	default:
		return false
	}
}

func (compactRecognizer) Parse(value string) (time.Time, error) {
	year := digits(value[0:4])
	month := digits(value[4:6])
	day := digits(value[6:8])
	if len(value) == 8 {
		return newDate(year, month, day, 0, 0, 0, time.UTC)
	}
	hour := digits(value[9:11])
	minute := digits(value[11:13])
	second := digits(value[13:15])
	// A floating local time is interpreted as UTC for determinism; the
	// trailing Z makes that explicit.
	return newDate(year, month, day, hour, minute, second, time.UTC)
}

// slashRecognizer handles slash-separated dates such as 03/04/2021.
// Whether that is March 4th or April 3rd is decided by the caller's
// DateOrder, never guessed from the data.
type slashRecognizer struct {
	order domain.DateOrder
}

func (slashRecognizer) Name() string { return "slash" }

func (slashRecognizer) Match(value string) bool {
	first, second, year, ok := splitTriplet(value, '/')
	return ok && len(year) == 4 && len(first) <= 2 && len(second) <= 2
}

func (r slashRecognizer) Parse(value string) (time.Time, error) {
	first, second, year, _ := splitTriplet(value, '/')
	month, day := digits(first), digits(second)
	if r.order == domain.DateOrderDMY {
		day, month = month, day
	}
	return newDate(digits(year), month, day, 0, 0, 0, time.UTC)
}

// dashDotRecognizer handles day-first dash and dot dates (15-01-2024,
// 15.01.2024) plus the year-first dot form (2024.01.15). Year-first dash
// dates belong to the ISO recognizer.
type dashDotRecognizer struct{}

func (dashDotRecognizer) Name() string { return "dashdot" }

func (dashDotRecognizer) Match(value string) bool {
	for _, sep := range []byte{'-', '.'} {
		first, second, third, ok := splitTriplet(value, sep)
		if !ok {
			continue
		}
		if len(third) == 4 && len(first) <= 2 && len(second) <= 2 {
			return true
		}
		if sep == '.' && len(first) == 4 && len(second) <= 2 && len(third) <= 2 {
			return true
		}
	}
	return false
}

func (dashDotRecognizer) Parse(value string) (time.Time, error) {
	for _, sep := range []byte{'-', '.'} {
		first, second, third, ok := splitTriplet(value, sep)
		if !ok {
			continue
		}
		if len(first) == 4 {
			return newDate(digits(first), digits(second), digits(third), 0, 0, 0, time.UTC)
		}
		return newDate(digits(third), digits(second), digits(first), 0, 0, 0, time.UTC)
	}
	return time.Time{}, fmt.Errorf("%w: malformed date %q", domain.ErrInvalidField, value)
}

// splitTriplet splits value at exactly two occurrences of sep into three
// all-digit groups.
func splitTriplet(value string, sep byte) (a, b, c string, ok bool) {
	parts := strings.Split(value, string(sep))
	if len(parts) != 3 {
		return "", "", "", false
	}
	for _, p := range parts {
		if !allDigits(p) {
			return "", "", "", false
		}
	}
	return parts[0], parts[1], parts[2], true
}

// monthYearRecognizer handles "January 2020" and "Jan 2020".
type monthYearRecognizer struct{}

var monthNames = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7,
	"aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

func (monthYearRecognizer) Name() string { return "month-year" }

func (monthYearRecognizer) Match(value string) bool {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return false
	}
	_, ok := monthNames[strings.ToLower(fields[0])]
	return ok && len(fields[1]) == 4 && allDigits(fields[1])
}

func (monthYearRecognizer) Parse(value string) (time.Time, error) {
	fields := strings.Fields(value)
	month := monthNames[strings.ToLower(fields[0])]
	return newDate(digits(fields[1]), month, 1, 0, 0, 0, time.UTC)
}

// yearRecognizer handles a bare 4-digit year, resolved to January 1st.
type yearRecognizer struct{}

func (yearRecognizer) Name() string { return "year" }

func (yearRecognizer) Match(value string) bool {
	return len(value) == 4 && allDigits(value)
}

func (yearRecognizer) Parse(value string) (time.Time, error) {
	return newDate(digits(value), 1, 1, 0, 0, 0, time.UTC)
}

// epochRecognizer handles Unix-epoch numerics of 10 digits or more.
// Seconds and milliseconds are auto-distinguished by magnitude.
type epochRecognizer struct{}

func (epochRecognizer) Name() string { return "epoch" }

func (epochRecognizer) Match(value string) bool {
	return len(value) >= 10 && len(value) <= 13 && allDigits(value)
}

func (epochRecognizer) Parse(value string) (time.Time, error) {
	var n int64
	for i := 0; i < len(value); i++ {
		n = n*10 + int64(value[i]-'0')
	}
	return ResolveEpoch(n)
}

// ResolveEpoch converts a Unix timestamp into a validated UTC time.
// Values above epochMillisFloor are read as milliseconds, anything else
// as seconds.
func ResolveEpoch(n int64) (time.Time, error) {
	const epochMillisFloor = 100_000_000_000 // ~year 5138 in seconds
	var t time.Time
	if n >= epochMillisFloor || n <= -epochMillisFloor {
		t = time.UnixMilli(n).UTC()
	} else {
		t = time.Unix(n, 0).UTC()
	}
	if !sanitize.YearInRange(t.Year()) {
		return time.Time{}, fmt.Errorf("%w: epoch %d resolves outside the year window", domain.ErrInvalidField, n)
	}
	return t, nil
}
