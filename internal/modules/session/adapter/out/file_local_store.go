package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"flowmodoro/internal/modules/session/domain"
	sessionout "flowmodoro/internal/modules/session/port/out"
	apperrors "flowmodoro/internal/platform/errors"
)

// FileLocalStore keeps every buffered record in one JSON array file. Each
// write rewrites the file through a temp file and rename.
type FileLocalStore struct {
	path string
	mu   sync.Mutex
}

// storedRecord accepts the field names older clients wrote: date for the
// timestamp, local_day for the day and synced for the confirmed flag.
type storedRecord struct {
	ID        recordID `json:"id"`
	Seconds   float64  `json:"seconds"`
	Kind      string   `json:"kind"`
	Action    string   `json:"action,omitempty"`
	Timestamp string   `json:"timestamp"`
	LocalDay  string   `json:"localDay"`
	Confirmed bool     `json:"confirmed"`

	Date      string `json:"date,omitempty"`
	LegacyDay string `json:"local_day,omitempty"`
	Synced    *bool  `json:"synced,omitempty"`
}

// recordID reads ids written as JSON numbers by older clients.
type recordID string

func (r *recordID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = recordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = recordID(n.String())
	return nil
}

func NewFileLocalStore(path string) sessionout.LocalStore {
	return &FileLocalStore{path: path}
}

func (s *FileLocalStore) Append(_ context.Context, record domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return err
	}
	return s.write(append(records, record))
}

func (s *FileLocalStore) ScanByDay(_ context.Context, day string) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return nil, err
	}
	out := []domain.Record{}
	for _, record := range records {
		if record.Day() == day {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *FileLocalStore) ScanUnconfirmed(_ context.Context) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return nil, err
	}
	out := []domain.Record{}
	for _, record := range records {
		if !record.Confirmed {
			out = append(out, record)
		}
	}
	return out, nil
}

// MarkConfirmed swaps the provisional id for serverID. Repeating a call
// that already succeeded is a no-op.
func (s *FileLocalStore) MarkConfirmed(_ context.Context, id, serverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load()
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID == id && !records[i].Confirmed {
			records[i].ID = serverID
			records[i].Confirmed = true
			return s.write(records)
		}
	}
	for _, record := range records {
		if record.ID == serverID && record.Confirmed {
			return nil
		}
	}
	return fmt.Errorf("mark confirmed %s: %w", id, apperrors.ErrNotFound)
}

func (s *FileLocalStore) load() ([]domain.Record, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read sessions: %v", apperrors.ErrLocalStorage, err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	stored := []storedRecord{}
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("%w: decode sessions: %v", apperrors.ErrLocalStorage, err)
	}
	records := make([]domain.Record, 0, len(stored))
	for _, item := range stored {
		records = append(records, item.toDomain())
	}
	return records, nil
}

func (s *FileLocalStore) write(records []domain.Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create sessions dir: %v", apperrors.ErrLocalStorage, err)
	}
	stored := make([]storedRecord, 0, len(records))
	for _, record := range records {
		stored = append(stored, fromDomain(record))
	}
	payload, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal sessions: %v", apperrors.ErrLocalStorage, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("%w: write sessions: %v", apperrors.ErrLocalStorage, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: replace sessions: %v", apperrors.ErrLocalStorage, err)
	}
	return nil
}

func (r storedRecord) toDomain() domain.Record {
	var seconds int
	switch {
	case r.Seconds > math.MaxInt32:
		seconds = math.MaxInt32
	case r.Seconds > 0:
		seconds = int(r.Seconds)
	}
	record := domain.Record{
		ID:        string(r.ID),
		Seconds:   seconds,
		Kind:      r.Kind,
		Action:    r.Action,
		Timestamp: r.Timestamp,
		LocalDay:  r.LocalDay,
		Confirmed: r.Confirmed,
	}
	if record.Timestamp == "" {
		record.Timestamp = r.Date
	}
	if record.LocalDay == "" {
		record.LocalDay = r.LegacyDay
	}
	if r.Synced != nil && *r.Synced {
		record.Confirmed = true
	}
	return record
}

func fromDomain(r domain.Record) storedRecord {
	return storedRecord{
		ID:        recordID(r.ID),
		Seconds:   float64(r.Seconds),
		Kind:      r.Kind,
		Action:    r.Action,
		Timestamp: r.Timestamp,
		LocalDay:  r.LocalDay,
		Confirmed: r.Confirmed,
	}
}
