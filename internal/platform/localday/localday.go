// Package localday is the single place where calendar-day labels are derived.
// Records store the label computed here at creation time and queries use the
// same function, so the two never drift apart.
package localday

import (
	"strings"
	"time"
)

const Layout = "2006-01-02"

// Of returns the YYYY-MM-DD label of t in loc. A nil loc means time.Local.
func Of(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(Layout)
}

// FromTimestamp derives a day label for legacy records that were stored
// without one: the first ten characters of their ISO-8601 timestamp.
func FromTimestamp(ts string) string {
	ts = strings.TrimSpace(ts)
	if len(ts) < len(Layout) {
		return ts
	}
	return ts[:len(Layout)]
}

// Valid reports whether day is a well-formed YYYY-MM-DD calendar date.
func Valid(day string) bool {
	if len(day) != len(Layout) {
		return false
	}
	_, err := time.Parse(Layout, day)
	return err == nil
}

// Shift moves a day label by n calendar days.
func Shift(day string, n int) (string, error) {
	t, err := time.Parse(Layout, day)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(Layout), nil
}
