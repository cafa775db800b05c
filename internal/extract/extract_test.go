package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func kyiv(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)
	return loc
}

func TestExtractExplicitNumericDate(t *testing.T) {
	loc := kyiv(t)
	e := New(loc)
	msg := time.Date(2025, time.November, 10, 9, 30, 0, 0, loc)

	records := e.Extract("Відключення світла: Група 1, 10.11.2025, 08:00-12:00", msg)
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, "2025-11-10T08:00:00+02:00", rec.Start.Format(time.RFC3339))
	require.Equal(t, "2025-11-10T12:00:00+02:00", rec.End.Format(time.RFC3339))
	require.Equal(t, "1", rec.Group)
	require.Equal(t, "Група 1", rec.Location)
}

func TestExtractVerboseRangeWithDottedGroup(t *testing.T) {
	loc := kyiv(t)
	e := New(loc)
	msg := time.Date(2025, time.November, 9, 12, 0, 0, 0, loc)

	records := e.Extract("Планові роботи з 14:30 до 18:00, група 2.1", msg)
	require.Len(t, records, 1)

	rec := records[0]
	require.True(t, strings.HasPrefix(rec.Start.Format(time.RFC3339), "2025-11-09T14:30"))
	require.True(t, strings.HasPrefix(rec.End.Format(time.RFC3339), "2025-11-09T18:00"))
	require.Equal(t, "2.1", rec.Group)
}

func TestExtractMultipleRangesShareDate(t *testing.T) {
	loc := kyiv(t)
	e := New(loc)
	msg := time.Date(2025, time.November, 9, 12, 0, 0, 0, loc)

	records := e.Extract("Графік відключень 10 листопада: 08:00-12:00 та 16:00-20:00", msg)
	require.Len(t, records, 2)
	for _, rec := range records {
		require.Equal(t, "2025-11-10", rec.DateKey())
	}
	require.Equal(t, 8, records[0].Start.Hour())
	require.Equal(t, 16, records[1].Start.Hour())
}

func TestExtractOvernightRollsToNextDay(t *testing.T) {
	loc := kyiv(t)
	e := New(loc)
	msg := time.Date(2025, time.November, 10, 21, 0, 0, 0, loc)

	records := e.Extract("Відключення світла 23:00-02:00", msg)
	require.Len(t, records, 1)

	rec := records[0]
	naiveEnd := time.Date(2025, time.November, 10, 2, 0, 0, 0, loc)
	require.Equal(t, naiveEnd.AddDate(0, 0, 1), rec.End)
	require.True(t, rec.End.After(rec.Start))
}

func TestExtractYearRolloverAtDecember(t *testing.T) {
	loc := kyiv(t)
	e := New(loc)
	msg := time.Date(2025, time.December, 28, 10, 0, 0, 0, loc)

	records := e.Extract("Графік на 2 січня: з 10:00 до 12:00", msg)
	require.Len(t, records, 1)
	require.Equal(t, "2026-01-02", records[0].DateKey())
}

func TestExtractMonthNameKeepsYearWhenNotDecember(t *testing.T) {
	loc := kyiv(t)
	e := New(loc)
	msg := time.Date(2025, time.November, 30, 10, 0, 0, 0, loc)

	records := e.Extract("Відключення 5 грудня 08:00-10:00", msg)
	require.Len(t, records, 1)
	require.Equal(t, "2025-12-05", records[0].DateKey())
}

func TestExtractInvalidDateFallsBackToMessageDate(t *testing.T) {
	loc := kyiv(t)
	e := New(loc)
	msg := time.Date(2025, time.November, 10, 10, 0, 0, 0, loc)

	records := e.Extract("Відключення 31.02 о 08:00-12:00", msg)
	require.Len(t, records, 1)
	require.Equal(t, "2025-11-10", records[0].DateKey())
}

func TestExtractNoTimeRangeYieldsNothing(t *testing.T) {
	e := New(kyiv(t))
	msg := time.Date(2025, time.November, 10, 10, 0, 0, 0, time.UTC)

	require.Empty(t, e.Extract("Відключення світла завтра по всьому місту", msg))
	require.Empty(t, e.Extract("", msg))
}

func TestExtractMalformedHourSkipped(t *testing.T) {
	e := New(kyiv(t))
	msg := time.Date(2025, time.November, 10, 10, 0, 0, 0, time.UTC)

	require.Empty(t, e.Extract("Відключення 25:00-26:70", msg))
}

func TestExtractStreetAppendsToGroup(t *testing.T) {
	loc := kyiv(t)
	e := New(loc)
	msg := time.Date(2025, time.November, 10, 10, 0, 0, 0, loc)

	records := e.Extract("Відключення Група 3, вул. Хрещатик 26, з 08:00 до 12:00", msg)
	require.Len(t, records, 1)
	require.Equal(t, "Група 3, Хрещатик 26", records[0].Location)
	require.Equal(t, "3", records[0].Group)
}

func TestExtractStreetAloneBecomesLocation(t *testing.T) {
	loc := kyiv(t)
	e := New(loc)
	msg := time.Date(2025, time.November, 10, 10, 0, 0, 0, loc)

	records := e.Extract("Відключення вул. Шевченка, 10:00-12:00", msg)
	require.Len(t, records, 1)
	require.Equal(t, "Шевченка", records[0].Location)
	require.Empty(t, records[0].Group)
}

func TestExtractLocationDefaultsToNotSpecified(t *testing.T) {
	loc := kyiv(t)
	e := New(loc)
	msg := time.Date(2025, time.November, 10, 10, 0, 0, 0, loc)

	records := e.Extract("Відключення світла 10:00-12:00", msg)
	require.Len(t, records, 1)
	require.Equal(t, "Не вказано", records[0].Location)
}

func TestExtractDescriptionTruncatedByRunes(t *testing.T) {
	loc := kyiv(t)
	e := New(loc)
	msg := time.Date(2025, time.November, 10, 10, 0, 0, 0, loc)

	text := "Відключення 10:00-12:00 " + strings.Repeat("ї", 600)
	records := e.Extract(text, msg)
	require.Len(t, records, 1)
	require.Equal(t, 500, len([]rune(records[0].Description)))
}

func TestExtractDateKeyMatchesStartDate(t *testing.T) {
	loc := kyiv(t)
	e := New(loc)
	msg := time.Date(2025, time.November, 9, 12, 0, 0, 0, loc)

	records := e.Extract("Графік 10.11: 08:00-12:00", msg)
	require.Len(t, records, 1)

	rec := records[0]
	parsed, err := time.Parse(time.RFC3339, rec.Start.Format(time.RFC3339))
	require.NoError(t, err)
	require.Equal(t, rec.DateKey(), parsed.Format("2006-01-02"))
}
