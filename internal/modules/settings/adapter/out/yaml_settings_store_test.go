package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	settingsout "flowmodoro/internal/modules/settings/adapter/out"
	"flowmodoro/internal/modules/settings/domain"
	apperrors "flowmodoro/internal/platform/errors"
)

func TestYAMLSettingsStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.v1.yaml")
	store := settingsout.NewYAMLSettingsStore(path)
	if _, err := store.Load(context.Background()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found before first save, got %v", err)
	}
	want := domain.Settings{ShortBreakMinutes: 7, LongBreakMinutes: 20, FlowsBeforeLongBreak: 3}
	if err := store.Save(context.Background(), want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(raw), "short_break_minutes: 7") || !strings.Contains(string(raw), "schema_version: 1") {
		t.Fatalf("unexpected yaml document: %s", raw)
	}
}

func TestYAMLSettingsStoreFillsMissingFieldsWithDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.v1.yaml")
	if err := os.WriteFile(path, []byte("long_break_minutes: 30\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err := settingsout.NewYAMLSettingsStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.LongBreakMinutes != 30 || got.ShortBreakMinutes != 5 || got.FlowsBeforeLongBreak != 4 {
		t.Fatalf("unexpected merge with defaults: %+v", got)
	}
}
