package ics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"outage-reminder/internal/reconcile"
)

func TestExport(t *testing.T) {
	events := []reconcile.Event{
		{
			Summary:     "⚡ Відключення світла: Група 1 (Група 1)",
			Description: "graph text",
			Start:       "2025-11-10T08:00:00+02:00",
			End:         "2025-11-10T12:00:00+02:00",
		},
		{
			Summary: "⚡ Відключення світла: Група 2 (Група 2)",
			Start:   "2025-11-10T16:00:00+02:00",
			End:     "2025-11-10T20:00:00+02:00",
		},
	}

	path := filepath.Join(t.TempDir(), "outages.ics")
	require.NoError(t, Export(events, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	body := string(data)
	require.Contains(t, body, "BEGIN:VCALENDAR")
	require.Contains(t, body, "END:VCALENDAR")
	require.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
}

func TestExportRejectsBadTimestamps(t *testing.T) {
	events := []reconcile.Event{{Summary: "x", Start: "not-a-date", End: "also-not"}}

	err := Export(events, filepath.Join(t.TempDir(), "bad.ics"))
	require.Error(t, err)
}

func TestEventUIDStable(t *testing.T) {
	ev := reconcile.Event{Summary: "s", Start: "a", End: "b"}
	require.Equal(t, eventUID(ev), eventUID(ev))

	other := reconcile.Event{Summary: "s", Start: "a", End: "c"}
	require.NotEqual(t, eventUID(ev), eventUID(other))
}
