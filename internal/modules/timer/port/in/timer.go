package in

import (
	"context"

	"flowmodoro/internal/modules/timer/dto"
)

type Usecase interface {
	State() dto.StateOutput
	Start() dto.StateOutput
	Pause() dto.StateOutput
	Toggle() dto.StateOutput
	Tick() dto.StateOutput
	Reset() dto.StateOutput
	Stop() dto.StateOutput
	Skip() dto.StateOutput
	// NextOutcome blocks until a finished interval has been persisted, ctx
	// is done, or the timer is closed.
	NextOutcome(ctx context.Context) (dto.Outcome, error)
	Close()
}
