package aggregate

import (
	"testing"
	"time"

	"outage-reminder/internal/extract"
	"outage-reminder/internal/model"
)

func TestAggregateGroupsByDate(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		t.Fatalf("loading zone: %v", err)
	}

	messages := []model.RawMessage{
		{
			ID:        1,
			Timestamp: time.Date(2025, time.November, 10, 8, 0, 0, 0, loc),
			Text:      "Відключення світла 10.11, 08:00-12:00",
		},
		{
			ID:        2,
			Timestamp: time.Date(2025, time.November, 10, 9, 0, 0, 0, loc),
			Text:      "Добрий день, сьогодні гарна погода",
		},
		{
			ID:        3,
			Timestamp: time.Date(2025, time.November, 11, 7, 0, 0, 0, loc),
			Text:      "Графік відключень: з 10:00 до 14:00",
		},
	}

	outages := Aggregate(messages, extract.New(loc))

	if len(outages) != 2 {
		t.Fatalf("expected 2 date keys, got %d: %v", len(outages), outages)
	}
	for _, key := range []string{"2025-11-10", "2025-11-11"} {
		if len(outages[key]) == 0 {
			t.Errorf("expected at least one record under %q", key)
		}
	}
}

func TestAggregatePreservesMessageOrder(t *testing.T) {
	loc := time.UTC
	messages := []model.RawMessage{
		{
			ID:        10,
			Timestamp: time.Date(2025, time.November, 10, 8, 0, 0, 0, loc),
			Text:      "Відключення Група 1: 08:00-10:00",
		},
		{
			ID:        11,
			Timestamp: time.Date(2025, time.November, 10, 9, 0, 0, 0, loc),
			Text:      "Відключення Група 2: 12:00-14:00",
		},
	}

	outages := Aggregate(messages, extract.New(loc))

	records := outages["2025-11-10"]
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Group != "1" || records[1].Group != "2" {
		t.Errorf("records out of message order: %q, %q", records[0].Group, records[1].Group)
	}
}

func TestAggregateSkipsNonOutageMessages(t *testing.T) {
	messages := []model.RawMessage{
		{ID: 1, Timestamp: time.Now(), Text: "просто повідомлення"},
		{ID: 2, Timestamp: time.Now(), Text: ""},
	}

	outages := Aggregate(messages, extract.New(time.UTC))
	if len(outages) != 0 {
		t.Fatalf("expected empty mapping, got %v", outages)
	}
}
