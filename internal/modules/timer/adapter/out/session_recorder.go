package out

import (
	"context"
	"time"

	sessiondto "flowmodoro/internal/modules/session/dto"
	sessionin "flowmodoro/internal/modules/session/port/in"
	"flowmodoro/internal/modules/timer/domain"
	timerout "flowmodoro/internal/modules/timer/port/out"
	"flowmodoro/internal/platform/tally"
)

type SessionRecorder struct {
	sessions sessionin.Usecase
}

func NewSessionRecorder(sessions sessionin.Usecase) timerout.Recorder {
	return SessionRecorder{sessions: sessions}
}

func (r SessionRecorder) Record(ctx context.Context, interval domain.Interval, finishedAt time.Time) (string, error) {
	out, err := r.sessions.Record(ctx, sessiondto.RecordInput{
		Seconds:    interval.Seconds,
		Kind:       interval.Kind,
		Action:     interval.Action,
		FinishedAt: finishedAt,
	})
	return out.Status, err
}

type SessionFlowCounter struct {
	sessions sessionin.Usecase
}

func NewSessionFlowCounter(sessions sessionin.Usecase) timerout.FlowCounter {
	return SessionFlowCounter{sessions: sessions}
}

func (c SessionFlowCounter) TodayFlowCount(ctx context.Context) (int, error) {
	today, err := c.sessions.Today(ctx)
	if err != nil {
		return 0, err
	}
	return len(today.Total(tally.KindFlow).Sessions), nil
}
