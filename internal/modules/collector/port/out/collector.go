package out

import (
	"context"

	"flowmodoro/internal/modules/collector/domain"
)

type SessionRepository interface {
	Insert(ctx context.Context, session domain.Session) (int64, error)
	// ListByDay returns rows whose local day is day, plus legacy rows without
	// a local day whose timestamp starts with day.
	ListByDay(ctx context.Context, day string) ([]domain.Session, error)
	Ping(ctx context.Context) error
}
