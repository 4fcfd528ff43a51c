package out

import (
	"context"
	"time"

	"flowmodoro/internal/modules/timer/domain"
)

type Recorder interface {
	// Record persists a finished interval and returns the persistence status.
	Record(ctx context.Context, interval domain.Interval, finishedAt time.Time) (string, error)
}

type SettingsSource interface {
	Current(ctx context.Context) (domain.Durations, error)
	Subscribe(fn func(domain.Durations)) func()
}

type FlowCounter interface {
	TodayFlowCount(ctx context.Context) (int, error)
}
