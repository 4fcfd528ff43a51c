package dto

import "time"

type StateOutput struct {
	Mode                  string
	Running               bool
	ElapsedFocusSeconds   int
	RemainingBreakSeconds int
	BreakSeconds          int
	BreakKind             string
	FlowCount             int
	// DisplaySeconds is elapsed time in focus and remaining time in a break.
	DisplaySeconds int
}

// Outcome reports how a finished interval was persisted.
type Outcome struct {
	Seconds    int
	Kind       string
	Action     string
	FinishedAt time.Time
	Status     string
	Err        error
}
