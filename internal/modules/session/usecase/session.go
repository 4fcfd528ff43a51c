package usecase

import (
	"context"

	"flowmodoro/internal/modules/session/domain"
	sessiondto "flowmodoro/internal/modules/session/dto"
	sessionin "flowmodoro/internal/modules/session/port/in"
	sessionout "flowmodoro/internal/modules/session/port/out"
	"flowmodoro/internal/modules/session/service"
	"flowmodoro/internal/platform/tally"
)

type Interactor struct {
	persist    *service.PersistService
	reconciler *service.Reconciler
	aggregator *service.DayAggregator
	remote     sessionout.RemoteService
}

func NewInteractor(persist *service.PersistService, reconciler *service.Reconciler, aggregator *service.DayAggregator, remote sessionout.RemoteService) sessionin.Usecase {
	return &Interactor{persist: persist, reconciler: reconciler, aggregator: aggregator, remote: remote}
}

func (i *Interactor) Record(ctx context.Context, input sessiondto.RecordInput) (sessiondto.RecordOutput, error) {
	record := i.persist.NewRecord(input.Seconds, input.Kind, input.Action, input.FinishedAt)
	result, err := i.persist.Persist(ctx, record)
	if err != nil {
		return sessiondto.RecordOutput{Session: toSessionOutput(record)}, err
	}
	return sessiondto.RecordOutput{Status: string(result.Status), Session: toSessionOutput(result.Record)}, nil
}

func (i *Interactor) Sync(ctx context.Context) (sessiondto.SyncOutput, error) {
	report, err := i.reconciler.Reconcile(ctx)
	if err != nil {
		return sessiondto.SyncOutput{}, err
	}
	return sessiondto.SyncOutput{Attempted: report.Attempted, Confirmed: report.Confirmed, Failed: report.Failed, Skipped: report.Skipped}, nil
}

func (i *Interactor) DayView(ctx context.Context, day string) (sessiondto.DayOutput, error) {
	totals, err := i.aggregator.DayView(ctx, day)
	if err != nil {
		return sessiondto.DayOutput{}, err
	}
	return toDayOutput(totals), nil
}

func (i *Interactor) Today(ctx context.Context) (sessiondto.DayOutput, error) {
	return i.DayView(ctx, i.persist.Today())
}

func (i *Interactor) Pending(ctx context.Context) ([]sessiondto.SessionOutput, error) {
	records, err := i.persist.Pending(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.SessionOutput, 0, len(records))
	for _, r := range records {
		out = append(out, toSessionOutput(r))
	}
	return out, nil
}

func (i *Interactor) Ping(ctx context.Context) error {
	return i.remote.Ping(ctx)
}

func toDayOutput(totals domain.DayTotals) sessiondto.DayOutput {
	out := sessiondto.DayOutput{Day: totals.Day}
	for _, kind := range tally.Kinds {
		bucket := totals.Total(kind)
		entry := sessiondto.KindTotalOutput{Kind: kind, TotalSeconds: bucket.TotalSeconds, Sessions: []sessiondto.SessionOutput{}}
		for _, r := range bucket.Records {
			entry.Sessions = append(entry.Sessions, toSessionOutput(r))
		}
		out.Totals = append(out.Totals, entry)
	}
	out.Sessions = make([]sessiondto.SessionOutput, 0, len(totals.Records))
	for _, r := range totals.Records {
		out.Sessions = append(out.Sessions, toSessionOutput(r))
	}
	return out
}

func toSessionOutput(r domain.Record) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		ID:        r.ID,
		Seconds:   r.Seconds,
		Kind:      r.Kind,
		Action:    r.Action,
		Timestamp: r.Timestamp,
		LocalDay:  r.LocalDay,
		Confirmed: r.Confirmed,
	}
}
