package domain

import (
	"time"

	"flowmodoro/internal/platform/localday"
	"flowmodoro/internal/platform/tally"
)

const SchemaVersion = 1

// TimestampLayout is the wire and storage format of Record.Timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Record is one finalized interval. Only ID and Confirmed change after
// creation.
type Record struct {
	ID        string
	Seconds   int
	Kind      string
	Action    string
	Timestamp string
	LocalDay  string
	Confirmed bool
}

// NewRecord finalizes an interval that ended at finishedAt. The local day is
// frozen here in loc and never recomputed.
func NewRecord(id string, seconds int, kind, action string, finishedAt time.Time, loc *time.Location) Record {
	if seconds < 0 {
		seconds = 0
	}
	return Record{
		ID:        id,
		Seconds:   seconds,
		Kind:      tally.NormalizeKind(kind),
		Action:    action,
		Timestamp: finishedAt.UTC().Format(TimestampLayout),
		LocalDay:  localday.Of(finishedAt, loc),
	}
}

// Day returns the stored local day, or the timestamp date for legacy
// records written before the local day was stored.
func (r Record) Day() string {
	if r.LocalDay != "" {
		return r.LocalDay
	}
	return localday.FromTimestamp(r.Timestamp)
}
