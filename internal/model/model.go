package model

import (
	"fmt"
	"time"
)

// RawMessage is a single message fetched from the announcement channel.
// It is produced by a source collaborator and passed by value through the
// pipeline; the core never mutates it.
type RawMessage struct {
	ID        int       `json:"id"`
	Timestamp time.Time `json:"date"`
	Text      string    `json:"text"`
}

// OutageRecord is one scheduled outage window extracted from a message.
// End is always strictly after Start; overnight spans are rolled to the
// next day at construction time.
type OutageRecord struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Group       string    `json:"group,omitempty"`
}

// NewOutageRecord validates the end-after-start invariant and returns the
// record. Callers are expected to have applied overnight rollover already.
func NewOutageRecord(start, end time.Time, location, description, group string) (OutageRecord, error) {
	if !end.After(start) {
		return OutageRecord{}, fmt.Errorf("outage end %s is not after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return OutageRecord{
		Start:       start,
		End:         end,
		Location:    location,
		Description: description,
		Group:       group,
	}, nil
}

// DateKey returns the calendar date of the record's start instant in its
// own zone, formatted YYYY-MM-DD. Records are grouped under this key.
func (r OutageRecord) DateKey() string {
	return r.Start.Format("2006-01-02")
}

// OutagesByDate maps DateKey strings to the outage records scheduled for
// that day, in message-processing order. Built fresh every run; the
// calendar service is the durable store.
type OutagesByDate map[string][]OutageRecord
