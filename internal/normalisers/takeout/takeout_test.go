package takeout

import (
	"context"
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
		ContentType: MIMEType,
		Data:        []byte(content),
	}
}

func TestNew(t *testing.T) {
	parser := New()
	require.NotNil(t, parser)
	assert.Equal(t, domain.SourceTakeout, parser.Source())
	assert.Equal(t, []string{"application/json"}, parser.SupportedMIMETypes())
}

func TestDetect(t *testing.T) {
	parser := New()
	assert.True(t, parser.Detect(item("a.json", `{"locations": []}`)))
	assert.True(t, parser.Detect(item("b.json", `{"notes": []}`)))
	assert.False(t, parser.Detect(item("c.json", `{"posts": []}`)))
	assert.False(t, parser.Detect(item("d.json", `not json`)))
}

func TestParse_LocationsGroupedByDay(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `{
		"locations": [
			{"timestamp": "2021-06-12T08:00:00Z", "latitudeE7": 515074000, "longitudeE7": -1278000},
			{"timestampMs": 1623499200000, "latitude": 51.51, "longitude": -0.13},
			{"timestamp": "2021-06-13T09:00:00Z", "latitude": 48.8566, "longitude": 2.3522},
			{"timestamp": "2021-06-13T10:00:00Z", "latitude": 0, "longitude": 0},
			{"latitude": 48.85, "longitude": 2.35}
		]
	}`

	result, err := parser.Parse(ctx, item("loc.json", content), domain.ImportOptions{UserID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	// Two calendar days; the 0,0 sentinel and the timestamp-less fix
	// contribute to neither.
	require.Len(t, result.Events, 2)

	day1 := result.Events[0]
	assert.Equal(t, time.Date(2021, 6, 12, 0, 0, 0, 0, time.UTC), day1.StartsAt)
	assert.Equal(t, domain.LayerTravel, day1.Layer)
	assert.Equal(t, "travel_day", day1.EventType)
	assert.Equal(t, 2, day1.Metadata["point_count"])
	require.NotNil(t, day1.Location)
	assert.InDelta(t, 51.5074, day1.Location.Latitude, 0.0001)
	assert.InDelta(t, -0.1278, day1.Location.Longitude, 0.0001)

	day2 := result.Events[1]
	assert.Equal(t, time.Date(2021, 6, 13, 0, 0, 0, 0, time.UTC), day2.StartsAt)
	assert.Equal(t, 1, day2.Metadata["point_count"])
}

func TestParse_LocationsDeterministicIDs(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `{"locations": [{"timestamp": "2021-06-12T08:00:00Z", "latitude": 51.5, "longitude": -0.12}]}`

	a, err := parser.Parse(ctx, item("loc.json", content), domain.ImportOptions{})
	require.NoError(t, err)
	b, err := parser.Parse(ctx, item("loc.json", content), domain.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, a.Events[0].SourceLocalID, b.Events[0].SourceLocalID)
}

func TestParse_CalendarItems(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `{
		"calendar": [
			{"id": "c1", "title": "Checkup", "startTime": "2024-03-01T10:00:00Z", "endTime": "2024-03-01T10:30:00Z", "category": "health", "where": "High Street Clinic"},
			{"summary": "Final exam", "start": "2024-05-20T09:00:00Z"},
			{"title": "Broken", "startTime": "2024-13-40"},
			{"startTime": "2024-03-02T10:00:00Z"}
		]
	}`

	result, err := parser.Parse(ctx, item("cal.json", content), domain.ImportOptions{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, result.Events, 2)

	first := result.Events[0]
	assert.Equal(t, "Checkup", first.Title)
	assert.Equal(t, domain.LayerHealth, first.Layer)
	assert.Equal(t, "c1", first.SourceLocalID)
	require.NotNil(t, first.EndsAt)
	assert.Equal(t, 30, first.EndsAt.Minute())
	require.NotNil(t, first.Location)
	assert.Equal(t, "High Street Clinic", first.Location.Name)

	// Aliased keys resolve; no native category routes through the
	// classifier.
	second := result.Events[1]
	assert.Equal(t, "Final exam", second.Title)
	assert.Equal(t, domain.LayerEducation, second.Layer)
	assert.NotEmpty(t, second.SourceLocalID)

	// The bad start date is reported; the title-less item is skipped
	// silently.
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].ItemID, "item 3")
	assert.Contains(t, result.Errors[0].Message, "invalid start time")
}

func TestParse_CalendarInvalidCategoryFallsBackToClassifier(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `{"calendar": [{"title": "Dentist visit", "startTime": "2024-03-01T10:00:00Z", "category": "stuff"}]}`

	result, err := parser.Parse(ctx, item("cal.json", content), domain.ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, domain.LayerHealth, result.Events[0].Layer)
}

func TestParse_Notes(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `{
		"notes": [
			{"id": "n1", "title": "Packing list", "createdTimestamp": "2021-06-01T08:00:00Z", "editedTimestamp": "2021-06-10T12:00:00Z",
			 "listContent": [
				{"text": "passport", "isChecked": true},
				{"text": "sunscreen", "isChecked": false}
			 ]},
			{"textContent": "Vacation ideas\nGreece or Portugal", "createdTimestamp": "2021-05-01T08:00:00Z"},
			{"id": "n3", "title": "Trashed", "isTrashed": true, "createdTimestamp": "2021-05-02T08:00:00Z"},
			{"id": "n4", "title": "No timestamp at all"}
		]
	}`

	result, err := parser.Parse(ctx, item("notes.json", content), domain.ImportOptions{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, result.Events, 2)

	checklist := result.Events[0]
	assert.Equal(t, "Packing list", checklist.Title)
	assert.Equal(t, "[x] passport\n[ ] sunscreen", checklist.Description)
	// The edit wins over the creation when both resolve.
	assert.Equal(t, time.Date(2021, 6, 10, 12, 0, 0, 0, time.UTC), checklist.StartsAt)
	assert.Equal(t, "n1", checklist.SourceLocalID)
	assert.Equal(t, "note", checklist.EventType)

	text := result.Events[1]
	assert.Equal(t, "Vacation ideas", text.Title)
	assert.Equal(t, "Vacation ideas\nGreece or Portugal", text.Description)
	assert.Equal(t, domain.LayerTravel, text.Layer)
	assert.NotEmpty(t, text.SourceLocalID)
}

func TestParse_MixedContainersInOneItem(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := `{
		"locations": [{"timestamp": "2021-06-12T08:00:00Z", "latitude": 51.5, "longitude": -0.12}],
		"notes": [{"id": "n1", "title": "Buy milk", "createdTimestamp": "2021-06-12T09:00:00Z"}],
		"settings": {"units": "metric"}
	}`

	result, err := parser.Parse(ctx, item("mixed.json", content), domain.ImportOptions{})
	require.NoError(t, err)
	// The unroutable "settings" key is ignored without complaint.
	assert.Len(t, result.Events, 2)
	assert.Empty(t, result.Errors)
}

func TestParse_NoKnownContainer(t *testing.T) {
	parser := New()
	ctx := context.Background()

	_, err := parser.Parse(ctx, item("odd.json", `{"bookmarks": []}`), domain.ImportOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnrecognizedFormat)
}

func TestParse_NotAnObject(t *testing.T) {
	parser := New()
	ctx := context.Background()

	_, err := parser.Parse(ctx, item("arr.json", `[1, 2, 3]`), domain.ImportOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnrecognizedFormat)
}

func TestParse_SizeCeiling(t *testing.T) {
	parser := New()
	ctx := context.Background()

	_, err := parser.Parse(ctx, item("big.json", `{"locations": []}`), domain.ImportOptions{MaxItemBytes: 4})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTooLarge)
	// The error names the item by its ID.
	assert.Contains(t, err.Error(), "big.json")
}

func TestParseMap_AcceptsDecodedStructure(t *testing.T) {
	parser := New()
	ctx := context.Background()

	data := map[string]any{
		"calendar": []any{
			map[string]any{
				"title":     "Team meeting",
				"startTime": "2024-01-08T09:00:00Z",
			},
		},
	}

	result, err := parser.ParseMap(ctx, "structured", data, domain.ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, domain.LayerWork, result.Events[0].Layer)
}
