package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"flowmodoro/internal/modules/collector/domain"
	collectorout "flowmodoro/internal/modules/collector/port/out"
	apperrors "flowmodoro/internal/platform/errors"
	"flowmodoro/internal/platform/localday"
)

type CollectorService struct {
	repo   collectorout.SessionRepository
	logger *log.Logger
}

func NewCollectorService(repo collectorout.SessionRepository, logger *log.Logger) *CollectorService {
	return &CollectorService{repo: repo, logger: logger}
}

func (s *CollectorService) Create(ctx context.Context, session domain.Session) (domain.Session, error) {
	id, err := s.repo.Insert(ctx, session)
	if err != nil {
		return domain.Session{}, err
	}
	session.ID = id
	s.logger.Debug("session stored", "id", id, "kind", session.Kind, "seconds", session.Seconds, "day", session.Day())
	return session, nil
}

func (s *CollectorService) Day(ctx context.Context, day string) ([]domain.Session, map[string]domain.KindTotal, error) {
	if !localday.Valid(day) {
		return nil, nil, fmt.Errorf("%w: day must be YYYY-MM-DD", apperrors.ErrInvalidInput)
	}
	sessions, err := s.repo.ListByDay(ctx, day)
	if err != nil {
		return nil, nil, err
	}
	return sessions, domain.Totals(sessions), nil
}

func (s *CollectorService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
