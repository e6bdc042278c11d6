package ics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

func item(name, content string) domain.ImportItem {
	return domain.ImportItem{
		ID:          name,
		Name:        name,
		ContentType: "text/calendar",
		Data:        []byte(content),
	}
}

func TestNew(t *testing.T) {
	parser := New()
	require.NotNil(t, parser)
	assert.Equal(t, domain.SourceICS, parser.Source())
	assert.Equal(t, []string{"text/calendar"}, parser.SupportedMIMETypes())
}

func TestDetect(t *testing.T) {
	parser := New()
	assert.True(t, parser.Detect(item("a.ics", "BEGIN:VCALENDAR\n")))
	assert.False(t, parser.Detect(item("a.txt", "just some text")))
}

func TestParse_SimpleEvent(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `BEGIN:VCALENDAR
VERSION:2.0
BEGIN:VEVENT
UID:evt-1@example.com
SUMMARY:Dentist appointment
DESCRIPTION:Annual checkup
LOCATION:High Street Clinic
DTSTART:20240115T100000Z
DTEND:20240115T110000Z
END:VEVENT
END:VCALENDAR`

	result, err := parser.Parse(ctx, item("cal.ics", content), domain.ImportOptions{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Empty(t, result.Errors)

	event := result.Events[0]
	assert.Equal(t, "Dentist appointment", event.Title)
	assert.Equal(t, "Annual checkup", event.Description)
	assert.Equal(t, "evt-1@example.com", event.SourceLocalID)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), event.StartsAt)
	require.NotNil(t, event.EndsAt)
	assert.Equal(t, 11, event.EndsAt.Hour())
	assert.Equal(t, domain.LayerHealth, event.Layer)
	require.NotNil(t, event.Location)
	assert.Equal(t, "High Street Clinic", event.Location.Name)
	assert.Equal(t, "u1", event.UserID)
}

func TestParse_FoldedSummary(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nSUMMARY:Quarterly planning\r\n  session\r\nDTSTART:20240301T090000Z\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"

	result, err := parser.Parse(ctx, item("fold.ics", content), domain.ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	// One space survives from the folded fragment; none is inserted.
	assert.Equal(t, "Quarterly planning session", result.Events[0].Title)
}

func TestParse_DateOnlyValue(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `BEGIN:VCALENDAR
BEGIN:VEVENT
SUMMARY:Graduation day
DTSTART;VALUE=DATE:20190620
END:VEVENT
END:VCALENDAR`

	result, err := parser.Parse(ctx, item("date.ics", content), domain.ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, time.Date(2019, 6, 20, 0, 0, 0, 0, time.UTC), result.Events[0].StartsAt)
}

func TestParse_EscapedText(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `BEGIN:VCALENDAR
BEGIN:VEVENT
SUMMARY:Dinner\, then drinks
DESCRIPTION:First line\nSecond line
DTSTART:20240210T190000Z
END:VEVENT
END:VCALENDAR`

	result, err := parser.Parse(ctx, item("esc.ics", content), domain.ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "Dinner, then drinks", result.Events[0].Title)
	assert.Equal(t, "First line\nSecond line", result.Events[0].Description)
}

func TestParse_AuxiliaryPropsVerbatim(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `BEGIN:VCALENDAR
BEGIN:VEVENT
SUMMARY:Standup
DTSTART:20240108T091500Z
RRULE:FREQ=WEEKLY;BYDAY=MO
CATEGORIES:work,recurring
STATUS:CONFIRMED
ORGANIZER:mailto:lead@example.com
ATTENDEE:mailto:dev1@example.com
ATTENDEE:mailto:dev2@example.com
END:VEVENT
END:VCALENDAR`

	result, err := parser.Parse(ctx, item("aux.ics", content), domain.ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)

	meta := result.Events[0].Metadata
	// The recurrence expression is captured verbatim, never expanded.
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO", meta["rrule"])
	assert.Equal(t, "work,recurring", meta["categories"])
	assert.Equal(t, "CONFIRMED", meta["status"])
	assert.Equal(t, "mailto:lead@example.com", meta["organizer"])
	assert.Equal(t, []string{"mailto:dev1@example.com", "mailto:dev2@example.com"}, meta["attendees"])
}

func TestParse_UnclosedRecordDiscarded(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `BEGIN:VCALENDAR
BEGIN:VEVENT
SUMMARY:Complete event
DTSTART:20240101T100000Z
END:VEVENT
BEGIN:VEVENT
SUMMARY:Never closed
DTSTART:20240102T100000Z
END:VCALENDAR`

	result, err := parser.Parse(ctx, item("open.ics", content), domain.ImportOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Events, 1)
	assert.Equal(t, "Complete event", result.Events[0].Title)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "not closed")
}

func TestParse_ReopenedRecordDiscarded(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `BEGIN:VCALENDAR
BEGIN:VEVENT
SUMMARY:First half
DTSTART:20240101T100000Z
BEGIN:VEVENT
SUMMARY:Second event
DTSTART:20240102T100000Z
END:VEVENT
END:VCALENDAR`

	result, err := parser.Parse(ctx, item("reopen.ics", content), domain.ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "Second event", result.Events[0].Title)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "re-opened")
}

func TestParse_MissingSummarySkipped(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `BEGIN:VCALENDAR
BEGIN:VEVENT
DTSTART:20240101T100000Z
END:VEVENT
END:VCALENDAR`

	result, err := parser.Parse(ctx, item("nosummary.ics", content), domain.ImportOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Events)
	assert.Empty(t, result.Errors)
}

func TestParse_BadDateReported(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `BEGIN:VCALENDAR
BEGIN:VEVENT
SUMMARY:Bad date
DTSTART:20240230T100000Z
END:VEVENT
END:VCALENDAR`

	result, err := parser.Parse(ctx, item("bad.ics", content), domain.ImportOptions{})
	require.NoError(t, err)
	assert.Empty(t, result.Events)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "DTSTART")
}

func TestParse_SizeCeiling(t *testing.T) {
	parser := New()
	ctx := context.Background()

	big := "BEGIN:VCALENDAR\n" + strings.Repeat("X-PAD:x\n", 100)
	_, err := parser.Parse(ctx, item("big.ics", big), domain.ImportOptions{MaxItemBytes: 64})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTooLarge)
	assert.Contains(t, err.Error(), "big.ics")
}

func TestParse_SyntheticUIDDeterministic(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `BEGIN:VCALENDAR
BEGIN:VEVENT
SUMMARY:No UID here
DTSTART:20240501T120000Z
END:VEVENT
END:VCALENDAR`

	a, err := parser.Parse(ctx, item("nouid.ics", content), domain.ImportOptions{})
	require.NoError(t, err)
	b, err := parser.Parse(ctx, item("nouid.ics", content), domain.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, a.Events[0].SourceLocalID, b.Events[0].SourceLocalID)
}
