// Package ics exports planned reminder events to an iCalendar file, for
// calendars subscribed by file instead of the Google Calendar API.
package ics

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	ical "github.com/arran4/golang-ical"

	"outage-reminder/internal/reconcile"
)

// Export writes the events to path as an iCalendar document.
func Export(events []reconcile.Event, path string) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//outage-reminder//EN")

	now := time.Now().UTC()
	for _, ev := range events {
		start, err := time.Parse(time.RFC3339, ev.Start)
		if err != nil {
			return fmt.Errorf("parsing event start %q: %w", ev.Start, err)
		}
		end, err := time.Parse(time.RFC3339, ev.End)
		if err != nil {
			return fmt.Errorf("parsing event end %q: %w", ev.End, err)
		}

		e := cal.AddEvent(eventUID(ev))
		e.SetDtStampTime(now)
		e.SetStartAt(start)
		e.SetEndAt(end)
		e.SetSummary(ev.Summary)
		e.SetDescription(ev.Description)
	}

	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// eventUID derives a stable identifier from the event fields, so
// re-exports produce the same UIDs and subscribed calendars de-dup.
func eventUID(ev reconcile.Event) string {
	data := fmt.Sprintf("%s|%s|%s", ev.Summary, ev.Start, ev.End)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16]) + "@outage-reminder"
}
