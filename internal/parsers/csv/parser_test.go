package csv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicle-labs/chronicle-cli/internal/core/domain"
)

func item(name, content string) domain.ImportItem {
	return domain.ImportItem{
		ID:          name,
		Name:        name,
		ContentType: "text/csv",
		Data:        []byte(content),
	}
}

func TestNew(t *testing.T) {
	parser := New()
	require.NotNil(t, parser)
	assert.Equal(t, domain.SourceCSV, parser.Source())
	assert.Contains(t, parser.SupportedMIMETypes(), "text/csv")
	assert.True(t, parser.Detect(domain.ImportItem{}))
}

func TestParse_AutoDetection(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "Title,Date,Notes\nDentist,2021-03-05,Routine checkup\nFlight to Rome,2021-06-01,Summer vacation\n"
	result, err := parser.Parse(ctx, item("cal.csv", content), domain.ImportOptions{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, result.Events, 2)
	assert.Empty(t, result.Errors)

	first := result.Events[0]
	assert.Equal(t, "Dentist", first.Title)
	assert.Equal(t, "Routine checkup", first.Description)
	assert.Equal(t, "u1", first.UserID)
	assert.Equal(t, domain.SourceCSV, first.Source)
	assert.Equal(t, 2021, first.StartsAt.Year())
	assert.Equal(t, domain.LayerHealth, first.Layer)

	second := result.Events[1]
	assert.Equal(t, domain.LayerTravel, second.Layer)
}

func TestParse_SynonymHeaders(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "Name,When\nBirthday party,2022-09-10\n"
	result, err := parser.Parse(ctx, item("events.csv", content), domain.ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "Birthday party", result.Events[0].Title)
}

func TestParse_NoTitleColumn(t *testing.T) {
	parser := New()
	ctx := context.Background()

	_, err := parser.Parse(ctx, item("x.csv", "Foo,Date\na,2021-01-01\n"), domain.ImportOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnrecognizedFormat)
	assert.Contains(t, err.Error(), "title")
}

func TestParse_NoDateColumn(t *testing.T) {
	parser := New()
	ctx := context.Background()

	_, err := parser.Parse(ctx, item("x.csv", "Title,Foo\na,b\n"), domain.ImportOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnrecognizedFormat)
	assert.Contains(t, err.Error(), "date")
}

func TestParse_UnclosedQuoteFailsWholeItem(t *testing.T) {
	parser := New()
	ctx := context.Background()

	result, err := parser.Parse(ctx, item("bad.csv", "Name,Value\n\"John,30"), domain.ImportOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnclosedQuote)
	assert.Nil(t, result)
}

func TestParse_RowsMissingTitleOrDateSkipped(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "Title,Date\n,2021-01-01\nDinner,\nDinner,2021-01-02\n"
	result, err := parser.Parse(ctx, item("rows.csv", content), domain.ImportOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Events, 1)
	assert.Empty(t, result.Errors) // skipped, not errored
}

func TestParse_InvalidDateReportedPerRow(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "Title,Date\nGood,2021-01-01\nBad,2021-02-30\nAlso good,2021-03-01\n"
	result, err := parser.Parse(ctx, item("dates.csv", content), domain.ImportOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Events, 2)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].ItemID, "row 3")
	assert.Contains(t, result.Errors[0].Message, "2021-02-30")
}

func TestParse_ShortRowsBackfilled(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "Title,Date,Notes\nConcert,2021-05-01\n"
	result, err := parser.Parse(ctx, item("short.csv", content), domain.ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Empty(t, result.Events[0].Description)
}

func TestParse_LayerColumnRespected(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "Title,Date,Category\nMystery thing,2021-01-01,Travel\n"
	result, err := parser.Parse(ctx, item("layers.csv", content), domain.ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, domain.LayerTravel, result.Events[0].Layer)
}

func TestParse_SlashDatesUseCallerOrder(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "Title,Date\nLunch,03/04/2021\n"

	mdy, err := parser.Parse(ctx, item("us.csv", content), domain.ImportOptions{DateOrder: domain.DateOrderMDY})
	require.NoError(t, err)
	require.Len(t, mdy.Events, 1)
	assert.Equal(t, 3, int(mdy.Events[0].StartsAt.Month()))

	dmy, err := parser.Parse(ctx, item("eu.csv", content), domain.ImportOptions{DateOrder: domain.DateOrderDMY})
	require.NoError(t, err)
	require.Len(t, dmy.Events, 1)
	assert.Equal(t, 4, int(dmy.Events[0].StartsAt.Month()))
}

func TestParse_UnmappedColumnsKeptAsMetadata(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "Title,Date,Color\nPicnic,2021-07-01,green\n"
	result, err := parser.Parse(ctx, item("extra.csv", content), domain.ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "green", result.Events[0].Metadata["Color"])
}

func TestParse_SourceLocalIDDeterministic(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "Title,Date\nHike,2021-08-15\n"
	a, err := parser.Parse(ctx, item("trips.csv", content), domain.ImportOptions{})
	require.NoError(t, err)
	b, err := parser.Parse(ctx, item("trips.csv", content), domain.ImportOptions{})
	require.NoError(t, err)

	require.Len(t, a.Events, 1)
	require.Len(t, b.Events, 1)
	assert.Equal(t, a.Events[0].SourceLocalID, b.Events[0].SourceLocalID)
	assert.NotEqual(t, a.Events[0].ID, b.Events[0].ID) // event IDs stay unique
}

func TestParseWithMapping(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "Thing,Happened,Extra\nGraduation,2019-06-20,gown\n"
	mapping := FieldMap{Title: "Thing", Date: "Happened"}
	result, err := parser.ParseWithMapping(ctx, item("custom.csv", content), domain.ImportOptions{}, mapping)
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "Graduation", result.Events[0].Title)
	assert.Equal(t, domain.LayerEducation, result.Events[0].Layer)
}

func TestParseWithMapping_RequiresTitleAndDate(t *testing.T) {
	parser := New()
	ctx := context.Background()

	_, err := parser.ParseWithMapping(ctx, item("x.csv", "a,b\n1,2\n"), domain.ImportOptions{}, FieldMap{Title: "a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParse_SemicolonDelimited(t *testing.T) {
	parser := New()
	ctx := context.Background()

	content := "Title;Date\nMuseum visit;2021-04-10\n"
	result, err := parser.Parse(ctx, item("eu.csv", content), domain.ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "Museum visit", result.Events[0].Title)
}
