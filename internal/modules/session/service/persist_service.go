package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"flowmodoro/internal/modules/session/domain"
	sessionout "flowmodoro/internal/modules/session/port/out"
	"flowmodoro/internal/platform/clock"
	apperrors "flowmodoro/internal/platform/errors"
	"flowmodoro/internal/platform/id"
	"flowmodoro/internal/platform/localday"
)

// PersistService writes finalized records to the collector and buffers them
// locally when it cannot be reached.
type PersistService struct {
	clock    clock.Clock
	idGen    id.Generator
	location *time.Location
	local    sessionout.LocalStore
	remote   sessionout.RemoteService
	logger   *log.Logger
}

func NewPersistService(clock clock.Clock, idGen id.Generator, location *time.Location, local sessionout.LocalStore, remote sessionout.RemoteService, logger *log.Logger) *PersistService {
	return &PersistService{clock: clock, idGen: idGen, location: location, local: local, remote: remote, logger: logger}
}

// NewRecord finalizes an interval. A zero finishedAt means now.
func (s *PersistService) NewRecord(seconds int, kind, action string, finishedAt time.Time) domain.Record {
	if finishedAt.IsZero() {
		finishedAt = s.clock.Now()
	}
	return domain.NewRecord(s.idGen.New(), seconds, kind, action, finishedAt, s.location)
}

// Persist reports StatusConfirmed or StatusBuffered. Records the collector
// rejects are returned as errors and never buffered.
func (s *PersistService) Persist(ctx context.Context, record domain.Record) (domain.PersistResult, error) {
	serverID, err := s.remote.CreateSession(ctx, record)
	if err == nil {
		record.ID = serverID
		record.Confirmed = true
		if cacheErr := s.local.Append(ctx, record); cacheErr != nil {
			s.logger.Warn("cache confirmed session failed", "id", serverID, "err", cacheErr)
		}
		s.logger.Debug("session confirmed", "id", serverID, "kind", record.Kind, "seconds", record.Seconds)
		return domain.PersistResult{Status: domain.StatusConfirmed, Record: record}, nil
	}
	if errors.Is(err, apperrors.ErrInvalidInput) {
		return domain.PersistResult{}, err
	}

	s.logger.Warn("collector unreachable, buffering session", "id", record.ID, "err", err)
	if appendErr := s.local.Append(ctx, record); appendErr != nil {
		if !errors.Is(appendErr, apperrors.ErrLocalStorage) {
			appendErr = fmt.Errorf("%w: %v", apperrors.ErrLocalStorage, appendErr)
		}
		return domain.PersistResult{}, fmt.Errorf("buffer session %s: %w", record.ID, appendErr)
	}
	return domain.PersistResult{Status: domain.StatusBuffered, Record: record}, nil
}

func (s *PersistService) Pending(ctx context.Context) ([]domain.Record, error) {
	return s.local.ScanUnconfirmed(ctx)
}

// Today is the current local day label.
func (s *PersistService) Today() string {
	return localday.Of(s.clock.Now(), s.location)
}
