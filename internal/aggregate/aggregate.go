// Package aggregate runs messages through the classifier and extractor
// and groups the resulting records by calendar date.
package aggregate

import (
	"outage-reminder/internal/classify"
	"outage-reminder/internal/extract"
	"outage-reminder/internal/model"
)

// Aggregate builds the date-keyed outage mapping for one run. Messages
// that are not outage announcements, or that yield no records, are
// skipped. Within a date key, records keep message-processing order;
// the source's fetch order is preserved, not re-sorted.
func Aggregate(messages []model.RawMessage, extractor *extract.Extractor) model.OutagesByDate {
	outages := make(model.OutagesByDate)

	for _, msg := range messages {
		if !classify.IsOutage(msg.Text) {
			continue
		}

		records := extractor.Extract(msg.Text, msg.Timestamp)
		for _, rec := range records {
			key := rec.DateKey()
			outages[key] = append(outages[key], rec)
		}
	}

	return outages
}
