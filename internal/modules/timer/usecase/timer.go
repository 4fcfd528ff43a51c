package usecase

import (
	"context"

	"flowmodoro/internal/modules/timer/domain"
	timerdto "flowmodoro/internal/modules/timer/dto"
	timerin "flowmodoro/internal/modules/timer/port/in"
	"flowmodoro/internal/modules/timer/service"
)

type Interactor struct {
	svc *service.TimerService
}

func NewInteractor(svc *service.TimerService) timerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) State() timerdto.StateOutput  { return toStateOutput(i.svc.State()) }
func (i *Interactor) Start() timerdto.StateOutput  { return toStateOutput(i.svc.Start()) }
func (i *Interactor) Pause() timerdto.StateOutput  { return toStateOutput(i.svc.Pause()) }
func (i *Interactor) Toggle() timerdto.StateOutput { return toStateOutput(i.svc.Toggle()) }
func (i *Interactor) Tick() timerdto.StateOutput   { return toStateOutput(i.svc.Tick()) }
func (i *Interactor) Reset() timerdto.StateOutput  { return toStateOutput(i.svc.Reset()) }

func (i *Interactor) Stop() timerdto.StateOutput {
	return toStateOutput(i.svc.StopOrSkip(domain.ActionStop))
}

func (i *Interactor) Skip() timerdto.StateOutput {
	return toStateOutput(i.svc.StopOrSkip(domain.ActionSkip))
}

func (i *Interactor) NextOutcome(ctx context.Context) (timerdto.Outcome, error) {
	select {
	case <-ctx.Done():
		return timerdto.Outcome{}, ctx.Err()
	case outcome, ok := <-i.svc.Outcomes():
		if !ok {
			return timerdto.Outcome{}, service.ErrClosed
		}
		return timerdto.Outcome{
			Seconds:    outcome.Interval.Seconds,
			Kind:       outcome.Interval.Kind,
			Action:     outcome.Interval.Action,
			FinishedAt: outcome.FinishedAt,
			Status:     outcome.Status,
			Err:        outcome.Err,
		}, nil
	}
}

func (i *Interactor) Close() {
	i.svc.Close()
}

func toStateOutput(s domain.State) timerdto.StateOutput {
	display := s.ElapsedFocusSeconds
	if s.Mode == domain.ModeBreak {
		display = s.RemainingBreakSeconds
	}
	return timerdto.StateOutput{
		Mode:                  string(s.Mode),
		Running:               s.Running,
		ElapsedFocusSeconds:   s.ElapsedFocusSeconds,
		RemainingBreakSeconds: s.RemainingBreakSeconds,
		BreakSeconds:          s.BreakSeconds,
		BreakKind:             s.BreakKind,
		FlowCount:             s.FlowCount,
		DisplaySeconds:        display,
	}
}
