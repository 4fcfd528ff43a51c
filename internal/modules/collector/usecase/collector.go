package usecase

import (
	"context"
	"strconv"

	"flowmodoro/internal/modules/collector/domain"
	collectordto "flowmodoro/internal/modules/collector/dto"
	collectorin "flowmodoro/internal/modules/collector/port/in"
	"flowmodoro/internal/modules/collector/service"
)

type Interactor struct {
	svc *service.CollectorService
}

func NewInteractor(svc *service.CollectorService) collectorin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) CreateSession(ctx context.Context, input collectordto.CreateSessionRequest) (collectordto.CreateSessionResponse, error) {
	session, err := domain.NewSession(input.Seconds, input.Kind, input.Action, input.EffectiveTimestamp(), input.EffectiveLocalDay())
	if err != nil {
		return collectordto.CreateSessionResponse{}, err
	}
	stored, err := i.svc.Create(ctx, session)
	if err != nil {
		return collectordto.CreateSessionResponse{}, err
	}
	return collectordto.CreateSessionResponse{ID: strconv.FormatInt(stored.ID, 10)}, nil
}

func (i *Interactor) Totals(ctx context.Context, day string) (collectordto.TotalsResponse, error) {
	sessions, totals, err := i.svc.Day(ctx, day)
	if err != nil {
		return collectordto.TotalsResponse{}, err
	}
	out := collectordto.TotalsResponse{
		Day:      day,
		Totals:   make(map[string]collectordto.KindTotalPayload, len(totals)),
		Sessions: toPayloads(sessions),
	}
	for kind, total := range totals {
		out.Totals[kind] = collectordto.KindTotalPayload{TotalSeconds: total.TotalSeconds, Sessions: toPayloads(total.Sessions)}
	}
	return out, nil
}

func (i *Interactor) Ping(ctx context.Context) error {
	return i.svc.Ping(ctx)
}

func toPayloads(sessions []domain.Session) []collectordto.SessionPayload {
	out := make([]collectordto.SessionPayload, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, collectordto.SessionPayload{
			ID:        strconv.FormatInt(s.ID, 10),
			Seconds:   s.Seconds,
			Kind:      s.Kind,
			Action:    s.Action,
			Timestamp: s.Timestamp,
			LocalDay:  s.LocalDay,
		})
	}
	return out
}
