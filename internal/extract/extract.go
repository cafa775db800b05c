// Package extract turns classified announcement text into structured
// outage records. Parsing is an ordered list of regex rules per category:
// time ranges accumulate across all patterns, date and location resolve
// first-match-wins. Malformed fragments are skipped, never raised.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"outage-reminder/internal/model"
)

const maxDescriptionRunes = 500

// Time ranges: "08:00-12:00" (any dash variant, ":" or "." separators)
// and the verbose "з 08:00 до 18:00" / "с 08:00 до 18:00" form. Both
// families are tried; all matches accumulate.
var timeRangePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2})[:.](\d{2})\s*[-–—]\s*(\d{1,2})[:.](\d{2})`),
	regexp.MustCompile(`(?i)[зс]\s+(\d{1,2})[:.](\d{2})\s+до\s+(\d{1,2})[:.](\d{2})`),
}

// Dates: "10 листопада" / "10 ноября" style first, then strict "10.11".
// The numeric form requires a two-digit month so group identifiers like
// "2.1" are never read as dates. No trailing \b after the month name:
// Go's \b is ASCII-only and never matches after a Cyrillic letter.
var (
	dateNamePattern    = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(січня|января|лютого|февраля|березня|марта|квітня|апреля|травня|мая|червня|июня|липня|июля|серпня|августа|вересня|сентября|жовтня|октября|листопада|ноября|грудня|декабря)`)
	dateNumericPattern = regexp.MustCompile(`\b(\d{1,2})\.(\d{2})\b`)
)

var monthNames = map[string]time.Month{
	"січня":     time.January,
	"января":    time.January,
	"лютого":    time.February,
	"февраля":   time.February,
	"березня":   time.March,
	"марта":     time.March,
	"квітня":    time.April,
	"апреля":    time.April,
	"травня":    time.May,
	"мая":       time.May,
	"червня":    time.June,
	"июня":      time.June,
	"липня":     time.July,
	"июля":      time.July,
	"серпня":    time.August,
	"августа":   time.August,
	"вересня":   time.September,
	"сентября":  time.September,
	"жовтня":    time.October,
	"октября":   time.October,
	"листопада": time.November,
	"ноября":    time.November,
	"грудня":    time.December,
	"декабря":   time.December,
}

var groupPattern = regexp.MustCompile(`(?i)груп[аи]?\s*[-:]?\s*(\d+[.\d]*)`)

// Address fragments, in priority order; the first match is appended to
// the location.
var addressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)вул\.\s+([^\n,;]+)`),
	regexp.MustCompile(`(?i)вулиця\s+([^\n,;]+)`),
	regexp.MustCompile(`(?i)район[іи]?\s+([^\n,;]+)`),
	regexp.MustCompile(`(?i)черга\s+(\d+)`),
}

const locationNotSpecified = "Не вказано"

type timeRange struct {
	startHour, startMin int
	endHour, endMin     int
}

// Extractor parses outage records out of announcement text. The zone is
// injected at construction and applied when building record instants.
type Extractor struct {
	loc *time.Location
}

// New creates an Extractor producing records in the given zone.
// A nil zone falls back to UTC.
func New(loc *time.Location) *Extractor {
	if loc == nil {
		loc = time.UTC
	}
	return &Extractor{loc: loc}
}

// Extract returns one record per time range found in text, or nothing if
// no time range is present. It never fails on malformed input.
func (e *Extractor) Extract(text string, messageTime time.Time) []model.OutageRecord {
	if text == "" {
		return nil
	}

	ranges := extractTimeRanges(text)
	if len(ranges) == 0 {
		return nil
	}

	msgLocal := messageTime.In(e.loc)
	year, month, day := e.resolveDate(text, msgLocal)

	location, group := resolveLocation(text)
	description := truncateRunes(text, maxDescriptionRunes)

	records := make([]model.OutageRecord, 0, len(ranges))
	for _, tr := range ranges {
		start := time.Date(year, month, day, tr.startHour, tr.startMin, 0, 0, e.loc)
		end := time.Date(year, month, day, tr.endHour, tr.endMin, 0, 0, e.loc)

		// Overnight span, e.g. 23:00-02:00: the window ends the next day.
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}

		rec, err := model.NewOutageRecord(start, end, location, description, group)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}

	return records
}

func extractTimeRanges(text string) []timeRange {
	var ranges []timeRange
	for _, pattern := range timeRangePatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			tr := timeRange{
				startHour: atoi(m[1]),
				startMin:  atoi(m[2]),
				endHour:   atoi(m[3]),
				endMin:    atoi(m[4]),
			}
			// The regex admits values like "25:70"; drop them here.
			if tr.startHour > 23 || tr.endHour > 23 || tr.startMin > 59 || tr.endMin > 59 {
				continue
			}
			ranges = append(ranges, tr)
		}
	}
	return ranges
}

// resolveDate finds an explicit date in text, defaulting to the message's
// own calendar date. The year comes from the message; a resolved month
// numerically before a December message month rolls into the next year.
func (e *Extractor) resolveDate(text string, msgLocal time.Time) (int, time.Month, int) {
	day, month, found := 0, time.Month(0), false

	if m := dateNamePattern.FindStringSubmatch(text); m != nil {
		if mo, ok := monthNames[strings.ToLower(m[2])]; ok {
			day, month, found = atoi(m[1]), mo, true
		}
	}
	if !found {
		if m := dateNumericPattern.FindStringSubmatch(text); m != nil {
			day, month, found = atoi(m[1]), time.Month(atoi(m[2])), true
		}
	}
	if !found {
		return msgLocal.Year(), msgLocal.Month(), msgLocal.Day()
	}

	year := msgLocal.Year()
	if month < msgLocal.Month() && msgLocal.Month() == time.December {
		year++
	}

	// time.Date normalizes out-of-range components (month 13, day 31 in a
	// 30-day month); a resolved date that does not round-trip is invalid
	// and falls back to the message date.
	resolved := time.Date(year, month, day, 0, 0, 0, 0, e.loc)
	if resolved.Year() != year || resolved.Month() != month || resolved.Day() != day {
		return msgLocal.Year(), msgLocal.Month(), msgLocal.Day()
	}

	return year, month, day
}

// resolveLocation builds the location string and the raw group id.
// A group match seeds "Група <n>"; the first address fragment found is
// appended comma-joined, or used alone when no group matched.
func resolveLocation(text string) (location, group string) {
	if m := groupPattern.FindStringSubmatch(text); m != nil {
		group = m[1]
		location = "Група " + group
	}

	for _, pattern := range addressPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		fragment := strings.TrimSpace(m[1])
		if location != "" {
			location += ", " + fragment
		} else {
			location = fragment
		}
		break
	}

	if location == "" {
		location = locationNotSpecified
	}
	return location, group
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
