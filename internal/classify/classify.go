// Package classify decides whether a channel message announces a power
// outage. It is a deliberately cheap two-signal heuristic: the text must
// mention an outage-related term and contain something that looks like a
// time of day. False positives are fine; the extractor yields nothing for
// text without a parseable schedule.
package classify

import (
	"regexp"
	"strings"
)

// Outage-related terms as they appear in DTEK-style announcements,
// Ukrainian and Russian. Matched against lower-cased text.
var keywords = []string{
	"відключення",
	"вимкнення",
	"графік",
	"електропостачання",
	"електроенергі",
	"світло",
	"без світла",
	"отключени",
	"график",
	"электроснабжени",
	"электроэнерги",
	"нет света",
}

var timePattern = regexp.MustCompile(`\d{1,2}[:.-]\d{2}`)

// IsOutage reports whether text looks like an outage announcement.
// Both signals are required: a domain keyword and a time-of-day pattern.
func IsOutage(text string) bool {
	if text == "" {
		return false
	}

	lower := strings.ToLower(text)

	hasKeyword := false
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hasKeyword = true
			break
		}
	}

	return hasKeyword && timePattern.MatchString(text)
}
