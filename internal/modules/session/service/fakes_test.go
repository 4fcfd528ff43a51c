package service_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	sessionadapter "flowmodoro/internal/modules/session/adapter/out"
	"flowmodoro/internal/modules/session/domain"
	sessionout "flowmodoro/internal/modules/session/port/out"
	apperrors "flowmodoro/internal/platform/errors"
)

// fakeRemote is an in-memory collector that can be switched offline.
type fakeRemote struct {
	mu      sync.Mutex
	online  bool
	reject  bool
	nextID  int
	stored  []domain.Record
	creates int
	pings   int
}

func (f *fakeRemote) setOnline(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.online = v
}

func (f *fakeRemote) CreateSession(_ context.Context, record domain.Record) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.reject {
		return "", &apperrors.RemoteError{Op: "create session", Status: 400, Err: apperrors.ErrInvalidInput}
	}
	if !f.online {
		return "", &apperrors.RemoteError{Op: "create session", Err: apperrors.ErrRemoteUnavailable}
	}
	f.nextID++
	record.ID = fmt.Sprintf("%d", f.nextID)
	record.Confirmed = true
	f.stored = append(f.stored, record)
	return record.ID, nil
}

func (f *fakeRemote) Totals(_ context.Context, day string) (domain.DayTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.online {
		return domain.DayTotals{}, apperrors.ErrRemoteUnavailable
	}
	matched := []domain.Record{}
	for _, r := range f.stored {
		if r.Day() == day {
			matched = append(matched, r)
		}
	}
	return domain.Aggregate(day, matched), nil
}

func (f *fakeRemote) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	if !f.online {
		return apperrors.ErrRemoteUnavailable
	}
	return nil
}

func (f *fakeRemote) storedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

type brokenLocal struct{}

func (brokenLocal) Append(context.Context, domain.Record) error {
	return fmt.Errorf("%w: disk full", apperrors.ErrLocalStorage)
}
func (brokenLocal) ScanByDay(context.Context, string) ([]domain.Record, error) {
	return nil, errors.New("unreadable")
}
func (brokenLocal) ScanUnconfirmed(context.Context) ([]domain.Record, error) {
	return nil, errors.New("unreadable")
}
func (brokenLocal) MarkConfirmed(context.Context, string, string) error { return errors.New("unreadable") }

func newLocal(t *testing.T) sessionout.LocalStore {
	t.Helper()
	return sessionadapter.NewFileLocalStore(filepath.Join(t.TempDir(), "sessions.v1.json"))
}

type fakeClock struct{ now time.Time }

func (f fakeClock) Now() time.Time { return f.now }

type seqID struct {
	mu sync.Mutex
	n  int
}

func (s *seqID) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("local-%d", s.n)
}
