package dto

import "time"

type RecordInput struct {
	Seconds    int
	Kind       string
	Action     string
	FinishedAt time.Time
}

type SessionOutput struct {
	ID        string
	Seconds   int
	Kind      string
	Action    string
	Timestamp string
	LocalDay  string
	Confirmed bool
}

type RecordOutput struct {
	Status  string
	Session SessionOutput
}

type KindTotalOutput struct {
	Kind         string
	TotalSeconds int
	Sessions     []SessionOutput
}

// DayOutput lists one entry per display kind (flow, break, big_break) in
// that order, present even when empty.
type DayOutput struct {
	Day      string
	Totals   []KindTotalOutput
	Sessions []SessionOutput
}

func (d DayOutput) Total(kind string) KindTotalOutput {
	for _, t := range d.Totals {
		if t.Kind == kind {
			return t
		}
	}
	return KindTotalOutput{Kind: kind}
}

type SyncOutput struct {
	Attempted int
	Confirmed int
	Failed    int
	Skipped   bool
}
