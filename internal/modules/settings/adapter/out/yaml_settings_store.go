package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"flowmodoro/internal/modules/settings/domain"
	settingsout "flowmodoro/internal/modules/settings/port/out"
	apperrors "flowmodoro/internal/platform/errors"
)

type YAMLSettingsStore struct {
	path string
	mu   sync.Mutex
}

type settingsDocument struct {
	SchemaVersion   int `yaml:"schema_version"`
	domain.Settings `yaml:",inline"`
}

func NewYAMLSettingsStore(path string) settingsout.SettingsStore {
	return &YAMLSettingsStore{path: path}
}

func (s *YAMLSettingsStore) Load(_ context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Settings{}, apperrors.ErrNotFound
		}
		return domain.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	doc := settingsDocument{Settings: domain.Defaults()}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return domain.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return doc.Settings, nil
}

func (s *YAMLSettingsStore) Save(_ context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	payload, err := yaml.Marshal(settingsDocument{SchemaVersion: domain.SchemaVersion, Settings: settings})
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
