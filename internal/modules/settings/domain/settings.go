package domain

import (
	"fmt"

	apperrors "flowmodoro/internal/platform/errors"
)

const SchemaVersion = 1

type Settings struct {
	ShortBreakMinutes    int `yaml:"short_break_minutes"`
	LongBreakMinutes     int `yaml:"long_break_minutes"`
	FlowsBeforeLongBreak int `yaml:"flows_before_long_break"`
}

func Defaults() Settings {
	return Settings{
		ShortBreakMinutes:    5,
		LongBreakMinutes:     15,
		FlowsBeforeLongBreak: 4,
	}
}

func (s Settings) Validate() error {
	if s.ShortBreakMinutes < 1 {
		return fmt.Errorf("%w: short break minutes must be positive", apperrors.ErrInvalidInput)
	}
	if s.LongBreakMinutes < 1 {
		return fmt.Errorf("%w: long break minutes must be positive", apperrors.ErrInvalidInput)
	}
	if s.FlowsBeforeLongBreak < 1 {
		return fmt.Errorf("%w: flows before long break must be positive", apperrors.ErrInvalidInput)
	}
	return nil
}
