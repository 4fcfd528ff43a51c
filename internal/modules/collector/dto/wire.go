// Package dto holds the JSON shapes of the collector API. The client in the
// session module decodes the same types.
package dto

type CreateSessionRequest struct {
	Seconds   *float64 `json:"seconds"`
	Kind      string   `json:"kind"`
	Action    string   `json:"action,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
	LocalDay  string   `json:"localDay,omitempty"`

	// Field names used by the first client release.
	Date           string `json:"date,omitempty"`
	LegacyLocalDay string `json:"local_day,omitempty"`
}

// EffectiveTimestamp prefers timestamp over the legacy date field.
func (r CreateSessionRequest) EffectiveTimestamp() string {
	if r.Timestamp != "" {
		return r.Timestamp
	}
	return r.Date
}

func (r CreateSessionRequest) EffectiveLocalDay() string {
	if r.LocalDay != "" {
		return r.LocalDay
	}
	return r.LegacyLocalDay
}

type CreateSessionResponse struct {
	ID string `json:"id"`
}

type SessionPayload struct {
	ID        string `json:"id"`
	Seconds   int    `json:"seconds"`
	Kind      string `json:"kind"`
	Action    string `json:"action,omitempty"`
	Timestamp string `json:"timestamp"`
	LocalDay  string `json:"localDay,omitempty"`
}

type KindTotalPayload struct {
	TotalSeconds int              `json:"totalSeconds"`
	Sessions     []SessionPayload `json:"sessions"`
}

type TotalsResponse struct {
	Day      string                      `json:"day"`
	Totals   map[string]KindTotalPayload `json:"totals"`
	Sessions []SessionPayload            `json:"sessions"`
}

type PingResponse struct {
	OK bool `json:"ok"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
