package usecase

import (
	"context"

	"flowmodoro/internal/modules/settings/domain"
	settingsdto "flowmodoro/internal/modules/settings/dto"
	settingsin "flowmodoro/internal/modules/settings/port/in"
	"flowmodoro/internal/modules/settings/service"
)

type Interactor struct {
	svc *service.SettingsService
}

func NewInteractor(svc *service.SettingsService) settingsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Get(ctx context.Context) (settingsdto.SettingsOutput, error) {
	return toOutput(i.svc.Current(ctx)), nil
}

func (i *Interactor) Save(ctx context.Context, input settingsdto.SaveInput) (settingsdto.SettingsOutput, error) {
	saved, err := i.svc.Save(ctx, domain.Settings{
		ShortBreakMinutes:    input.ShortBreakMinutes,
		LongBreakMinutes:     input.LongBreakMinutes,
		FlowsBeforeLongBreak: input.FlowsBeforeLongBreak,
	})
	if err != nil {
		return settingsdto.SettingsOutput{}, err
	}
	return toOutput(saved), nil
}

func (i *Interactor) Subscribe(fn func(settingsdto.SettingsOutput)) func() {
	return i.svc.Subscribe(func(s domain.Settings) { fn(toOutput(s)) })
}

func toOutput(s domain.Settings) settingsdto.SettingsOutput {
	return settingsdto.SettingsOutput{
		ShortBreakMinutes:    s.ShortBreakMinutes,
		LongBreakMinutes:     s.LongBreakMinutes,
		FlowsBeforeLongBreak: s.FlowsBeforeLongBreak,
	}
}
