package in

import (
	"context"

	timerdto "flowmodoro/internal/modules/timer/dto"
	timerin "flowmodoro/internal/modules/timer/port/in"
)

// TUIHandler exposes the timer to the terminal UI. Every call returns the
// state right after the action so the view can redraw without a second read.
type TUIHandler struct {
	usecase timerin.Usecase
}

func NewTUIHandler(usecase timerin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) State() timerdto.StateOutput  { return h.usecase.State() }
func (h TUIHandler) Toggle() timerdto.StateOutput { return h.usecase.Toggle() }
func (h TUIHandler) Start() timerdto.StateOutput  { return h.usecase.Start() }
func (h TUIHandler) Pause() timerdto.StateOutput  { return h.usecase.Pause() }
func (h TUIHandler) Tick() timerdto.StateOutput   { return h.usecase.Tick() }
func (h TUIHandler) Reset() timerdto.StateOutput  { return h.usecase.Reset() }
func (h TUIHandler) Stop() timerdto.StateOutput   { return h.usecase.Stop() }
func (h TUIHandler) Skip() timerdto.StateOutput   { return h.usecase.Skip() }

func (h TUIHandler) NextOutcome(ctx context.Context) (timerdto.Outcome, error) {
	return h.usecase.NextOutcome(ctx)
}

func (h TUIHandler) Close() {
	h.usecase.Close()
}
