package in

import (
	"context"

	"flowmodoro/internal/modules/collector/dto"
)

type Usecase interface {
	CreateSession(ctx context.Context, input dto.CreateSessionRequest) (dto.CreateSessionResponse, error)
	Totals(ctx context.Context, day string) (dto.TotalsResponse, error)
	Ping(ctx context.Context) error
}
