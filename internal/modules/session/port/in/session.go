package in

import (
	"context"

	"flowmodoro/internal/modules/session/dto"
)

type Usecase interface {
	Record(ctx context.Context, input dto.RecordInput) (dto.RecordOutput, error)
	Sync(ctx context.Context) (dto.SyncOutput, error)
	DayView(ctx context.Context, day string) (dto.DayOutput, error)
	Today(ctx context.Context) (dto.DayOutput, error)
	Pending(ctx context.Context) ([]dto.SessionOutput, error)
	Ping(ctx context.Context) error
}
