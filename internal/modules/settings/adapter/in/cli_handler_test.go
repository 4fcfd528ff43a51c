package in_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	settingsin "flowmodoro/internal/modules/settings/adapter/in"
	settingsout "flowmodoro/internal/modules/settings/adapter/out"
	"flowmodoro/internal/modules/settings/service"
	"flowmodoro/internal/modules/settings/usecase"
	apperrors "flowmodoro/internal/platform/errors"
	"flowmodoro/internal/platform/logging"
)

func newHandler(t *testing.T) settingsin.CLIHandler {
	t.Helper()
	store := settingsout.NewYAMLSettingsStore(filepath.Join(t.TempDir(), "settings.v1.yaml"))
	return settingsin.NewCLIHandler(usecase.NewInteractor(service.NewSettingsService(store, logging.Discard())))
}

func TestSetKeepsUnsetFields(t *testing.T) {
	t.Parallel()
	h := newHandler(t)
	ctx := context.Background()

	out, err := h.Set(ctx, 0, 25, 0)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if out.ShortBreakMinutes != 5 || out.LongBreakMinutes != 25 || out.FlowsBeforeLongBreak != 4 {
		t.Fatalf("unexpected settings: %+v", out)
	}
	shown, err := h.Show(ctx)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if shown != out {
		t.Fatalf("show = %+v, want %+v", shown, out)
	}
}

func TestSetRejectsNegative(t *testing.T) {
	t.Parallel()
	h := newHandler(t)
	if _, err := h.Set(context.Background(), -1, 0, 0); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
