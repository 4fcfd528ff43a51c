package in

import (
	"context"

	"flowmodoro/internal/modules/settings/dto"
)

type Usecase interface {
	Get(ctx context.Context) (dto.SettingsOutput, error)
	Save(ctx context.Context, input dto.SaveInput) (dto.SettingsOutput, error)
	// Subscribe registers fn for every successful save. The returned func
	// removes the subscription.
	Subscribe(fn func(dto.SettingsOutput)) func()
}
