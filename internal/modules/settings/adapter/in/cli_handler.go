package in

import (
	"context"

	settingsdto "flowmodoro/internal/modules/settings/dto"
	settingsin "flowmodoro/internal/modules/settings/port/in"
)

type CLIHandler struct {
	usecase settingsin.Usecase
}

func NewCLIHandler(usecase settingsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context) (settingsdto.SettingsOutput, error) {
	return h.usecase.Get(ctx)
}

// Set applies the non-zero fields on top of the current settings.
func (h CLIHandler) Set(ctx context.Context, shortBreak, longBreak, flowsBeforeLong int) (settingsdto.SettingsOutput, error) {
	current, err := h.usecase.Get(ctx)
	if err != nil {
		return settingsdto.SettingsOutput{}, err
	}
	input := settingsdto.SaveInput{
		ShortBreakMinutes:    current.ShortBreakMinutes,
		LongBreakMinutes:     current.LongBreakMinutes,
		FlowsBeforeLongBreak: current.FlowsBeforeLongBreak,
	}
	if shortBreak != 0 {
		input.ShortBreakMinutes = shortBreak
	}
	if longBreak != 0 {
		input.LongBreakMinutes = longBreak
	}
	if flowsBeforeLong != 0 {
		input.FlowsBeforeLongBreak = flowsBeforeLong
	}
	return h.usecase.Save(ctx, input)
}
