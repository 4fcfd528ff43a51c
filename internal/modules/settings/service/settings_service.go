package service

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"flowmodoro/internal/modules/settings/domain"
	settingsout "flowmodoro/internal/modules/settings/port/out"
	apperrors "flowmodoro/internal/platform/errors"
)

// SettingsService keeps the current timer settings and broadcasts every
// saved value to its subscribers, so consumers pick up changes without a
// restart.
type SettingsService struct {
	store  settingsout.SettingsStore
	logger *log.Logger

	// saveMu orders store writes and their broadcasts, so the last value
	// written is also the last value subscribers see.
	saveMu sync.Mutex

	mu          sync.Mutex
	current     domain.Settings
	loaded      bool
	nextID      int
	subscribers map[int]func(domain.Settings)
	order       []int
}

func NewSettingsService(store settingsout.SettingsStore, logger *log.Logger) *SettingsService {
	return &SettingsService{store: store, logger: logger, subscribers: map[int]func(domain.Settings){}}
}

// Current returns the cached settings, loading them once. Missing or
// unreadable settings fall back to the defaults.
func (s *SettingsService) Current(ctx context.Context) domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.current
	}
	settings, err := s.store.Load(ctx)
	switch {
	case err == nil:
		if verr := settings.Validate(); verr != nil {
			s.logger.Warn("stored settings invalid, using defaults", "err", verr)
			settings = domain.Defaults()
		}
	case errors.Is(err, apperrors.ErrNotFound):
		settings = domain.Defaults()
	default:
		s.logger.Warn("load settings failed, using defaults", "err", err)
		settings = domain.Defaults()
	}
	s.current = settings
	s.loaded = true
	return settings
}

// Save validates, persists and broadcasts settings. Subscribers run on the
// caller's goroutine and must not call Save themselves.
func (s *SettingsService) Save(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if err := s.store.Save(ctx, settings); err != nil {
		return domain.Settings{}, err
	}
	s.mu.Lock()
	s.current = settings
	s.loaded = true
	subscribers := make([]func(domain.Settings), 0, len(s.order))
	for _, id := range s.order {
		subscribers = append(subscribers, s.subscribers[id])
	}
	s.mu.Unlock()

	s.logger.Info("settings saved",
		"short_break", settings.ShortBreakMinutes,
		"long_break", settings.LongBreakMinutes,
		"flows_before_long_break", settings.FlowsBeforeLongBreak)
	for _, fn := range subscribers {
		fn(settings)
	}
	return settings, nil
}

// Subscribe registers fn for every later save. The returned function
// unsubscribes and is safe to call more than once.
func (s *SettingsService) Subscribe(fn func(domain.Settings)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.order = append(s.order, id)
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}
