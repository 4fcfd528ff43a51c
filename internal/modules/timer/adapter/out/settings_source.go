package out

import (
	"context"

	settingsdto "flowmodoro/internal/modules/settings/dto"
	settingsin "flowmodoro/internal/modules/settings/port/in"
	"flowmodoro/internal/modules/timer/domain"
	timerout "flowmodoro/internal/modules/timer/port/out"
)

type SettingsSource struct {
	settings settingsin.Usecase
}

func NewSettingsSource(settings settingsin.Usecase) timerout.SettingsSource {
	return SettingsSource{settings: settings}
}

func (s SettingsSource) Current(ctx context.Context) (domain.Durations, error) {
	current, err := s.settings.Get(ctx)
	if err != nil {
		return domain.Durations{}, err
	}
	return toDurations(current), nil
}

func (s SettingsSource) Subscribe(fn func(domain.Durations)) func() {
	return s.settings.Subscribe(func(out settingsdto.SettingsOutput) { fn(toDurations(out)) })
}

func toDurations(s settingsdto.SettingsOutput) domain.Durations {
	return domain.DurationsFromMinutes(s.ShortBreakMinutes, s.LongBreakMinutes, s.FlowsBeforeLongBreak)
}
