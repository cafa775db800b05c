// Package reconcile holds the sync policy: which extracted outages become
// calendar events, which are duplicates of existing ones, and which stale
// reminders should be removed. It performs no I/O; calendar mutations are
// delegated to the caller.
package reconcile

import (
	"sort"
	"strings"
	"time"

	"outage-reminder/internal/model"
)

// SummaryPrefix tags every reminder event this tool creates. Dedup and
// cleanup recognize our events solely by this prefix.
const SummaryPrefix = "⚡ Відключення світла"

// Event is the calendar-facing projection of an outage record. Start and
// End are RFC3339 strings with a numeric UTC offset.
type Event struct {
	Summary     string
	Description string
	Start       string
	End         string
}

// ExistingEvent is a snapshot row fetched from the calendar collaborator.
type ExistingEvent struct {
	ID      string
	Summary string
	Start   string
	End     string
	Link    string
}

// BuildEvent maps an outage record to its reminder event.
func BuildEvent(rec model.OutageRecord) Event {
	summary := SummaryPrefix + ": " + rec.Location
	if rec.Group != "" {
		summary += " (Група " + rec.Group + ")"
	}
	return Event{
		Summary:     summary,
		Description: rec.Description,
		Start:       rec.Start.Format(time.RFC3339),
		End:         rec.End.Format(time.RFC3339),
	}
}

// IsReminder reports whether a calendar event summary belongs to this tool.
func IsReminder(summary string) bool {
	return strings.HasPrefix(summary, SummaryPrefix)
}

// AllowedDates returns the date keys reminders may be created for: today
// and tomorrow relative to now, in now's zone.
func AllowedDates(now time.Time) map[string]bool {
	today := now.Format("2006-01-02")
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")
	return map[string]bool{today: true, tomorrow: true}
}

// Prune drops all date keys outside the allowed window and reports how
// many were removed. Runs before any calendar interaction so past or
// far-future dates from noisy source text never reach the calendar.
func Prune(outages model.OutagesByDate, allowed map[string]bool) (model.OutagesByDate, int) {
	kept := make(model.OutagesByDate, len(outages))
	removed := 0
	for key, records := range outages {
		if allowed[key] {
			kept[key] = records
		} else {
			removed++
		}
	}
	return kept, removed
}

// Plan is the reconciliation outcome: events to create and duplicates to
// skip, in sorted date order.
type Plan struct {
	Create []Event
	Skip   []Event
}

// BuildPlan decides, for every record, whether its event must be created
// or already exists. A non-empty groupFilter drops records whose group id
// does not match exactly; records without a group are dropped too.
//
// An event counts as existing iff summary, start and end are all equal as
// strings. Representation differences of the same instant are treated as
// distinct on purpose; see DESIGN.md.
func BuildPlan(outages model.OutagesByDate, existing []ExistingEvent, groupFilter string) Plan {
	keys := make([]string, 0, len(outages))
	for key := range outages {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var plan Plan
	for _, key := range keys {
		for _, rec := range outages[key] {
			if groupFilter != "" && rec.Group != groupFilter {
				continue
			}

			ev := BuildEvent(rec)
			if eventExists(ev, existing) {
				plan.Skip = append(plan.Skip, ev)
			} else {
				plan.Create = append(plan.Create, ev)
			}
		}
	}
	return plan
}

func eventExists(ev Event, existing []ExistingEvent) bool {
	for _, ex := range existing {
		if ex.Summary == ev.Summary && ex.Start == ev.Start && ex.End == ev.End {
			return true
		}
	}
	return false
}

// CleanupCandidates selects reminder events whose date falls outside the
// allowed window. All-day events and events with unparseable starts are
// left alone.
func CleanupCandidates(events []ExistingEvent, allowed map[string]bool) []ExistingEvent {
	var candidates []ExistingEvent
	for _, ev := range events {
		if !IsReminder(ev.Summary) {
			continue
		}
		if ev.Start == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, ev.Start)
		if err != nil {
			continue
		}
		if !allowed[start.Format("2006-01-02")] {
			candidates = append(candidates, ev)
		}
	}
	return candidates
}
