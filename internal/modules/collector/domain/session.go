package domain

import (
	"fmt"
	"math"
	"strings"

	apperrors "flowmodoro/internal/platform/errors"
	"flowmodoro/internal/platform/localday"
	"flowmodoro/internal/platform/tally"
)

// MaxSeconds bounds a single interval. Larger values are rejected rather
// than converted, since they would overflow the stored integer.
const MaxSeconds = math.MaxInt32

// Session is one stored row. LocalDay is empty for rows written before the
// column existed.
type Session struct {
	ID        int64
	Seconds   int
	Kind      string
	Action    string
	Timestamp string
	LocalDay  string
}

// NewSession validates an incoming payload. seconds is nil when the field
// was missing from the request.
func NewSession(seconds *float64, kind, action, timestamp, localDay string) (Session, error) {
	if seconds == nil || math.IsNaN(*seconds) || math.IsInf(*seconds, 0) {
		return Session{}, fmt.Errorf("%w: seconds must be a number", apperrors.ErrInvalidInput)
	}
	if *seconds < 0 {
		return Session{}, fmt.Errorf("%w: seconds must not be negative", apperrors.ErrInvalidInput)
	}
	if *seconds > MaxSeconds {
		return Session{}, fmt.Errorf("%w: seconds must not exceed %d", apperrors.ErrInvalidInput, MaxSeconds)
	}
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return Session{}, fmt.Errorf("%w: kind is required", apperrors.ErrInvalidInput)
	}
	timestamp = strings.TrimSpace(timestamp)
	if timestamp == "" {
		return Session{}, fmt.Errorf("%w: timestamp is required", apperrors.ErrInvalidInput)
	}
	localDay = strings.TrimSpace(localDay)
	if localDay != "" && !localday.Valid(localDay) {
		return Session{}, fmt.Errorf("%w: localDay must be YYYY-MM-DD", apperrors.ErrInvalidInput)
	}
	return Session{
		Seconds:   int(math.Round(*seconds)),
		Kind:      kind,
		Action:    strings.TrimSpace(action),
		Timestamp: timestamp,
		LocalDay:  localDay,
	}, nil
}

func (s Session) Day() string {
	if s.LocalDay != "" {
		return s.LocalDay
	}
	return localday.FromTimestamp(s.Timestamp)
}

type KindTotal struct {
	TotalSeconds int
	Sessions     []Session
}

// Totals groups sessions by kind. Unknown or missing kinds count as flow.
func Totals(sessions []Session) map[string]KindTotal {
	buckets := tally.ByKind(sessions,
		func(s Session) string { return s.Kind },
		func(s Session) int { return s.Seconds },
	)
	out := make(map[string]KindTotal, len(buckets))
	for kind, bucket := range buckets {
		out[kind] = KindTotal{TotalSeconds: bucket.TotalSeconds, Sessions: bucket.Items}
	}
	return out
}
