package out

import (
	"context"

	"flowmodoro/internal/modules/settings/domain"
)

type SettingsStore interface {
	// Load returns apperrors.ErrNotFound when nothing has been saved yet.
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}
