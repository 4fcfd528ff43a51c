package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"flowmodoro/internal/modules/timer/domain"
	timerout "flowmodoro/internal/modules/timer/port/out"
	"flowmodoro/internal/platform/clock"
)

const (
	outcomeBuffer  = 16
	persistTimeout = 30 * time.Second
)

var ErrClosed = errors.New("timer closed")

// Outcome reports how one finished interval was persisted.
type Outcome struct {
	Interval   domain.Interval
	FinishedAt time.Time
	Status     string
	Err        error
}

// TimerService serializes every user action and tick onto one Machine.
// Transitions complete synchronously; persisting the finished interval runs
// in the background and its result is published on Outcomes.
type TimerService struct {
	clock    clock.Clock
	recorder timerout.Recorder
	logger   *log.Logger

	mu          sync.Mutex
	machine     *domain.Machine
	closed      bool
	unsubscribe func()

	inflight sync.WaitGroup
	outcomes chan Outcome
}

// NewTimerService loads settings and today's flow count, then subscribes
// to settings changes. A failed flow count only logs and starts from zero.
func NewTimerService(ctx context.Context, clock clock.Clock, recorder timerout.Recorder, settings timerout.SettingsSource, counter timerout.FlowCounter, logger *log.Logger) (*TimerService, error) {
	durations, err := settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	flowCount, err := counter.TodayFlowCount(ctx)
	if err != nil {
		logger.Warn("count today's flows failed, starting from zero", "err", err)
		flowCount = 0
	}
	s := &TimerService{
		clock:    clock,
		recorder: recorder,
		logger:   logger,
		machine:  domain.NewMachine(durations, flowCount),
		outcomes: make(chan Outcome, outcomeBuffer),
	}
	s.unsubscribe = settings.Subscribe(func(d domain.Durations) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.machine.SetDurations(d)
		s.logger.Debug("timer settings updated", "short", d.ShortBreakSeconds, "long", d.LongBreakSeconds, "every", d.FlowsBeforeLongBreak)
	})
	return s, nil
}

// State returns the current snapshot.
func (s *TimerService) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

func (s *TimerService) Start() domain.State {
	return s.apply(func(m *domain.Machine) { m.Start() })
}

func (s *TimerService) Pause() domain.State {
	return s.apply(func(m *domain.Machine) { m.Pause() })
}

// Toggle starts a paused interval or pauses a running one.
func (s *TimerService) Toggle() domain.State {
	return s.apply(func(m *domain.Machine) {
		if m.State().Running {
			m.Pause()
			return
		}
		m.Start()
	})
}

func (s *TimerService) Reset() domain.State {
	return s.apply(func(m *domain.Machine) { m.Reset() })
}

// Tick advances one second and persists a break that ran out.
func (s *TimerService) Tick() domain.State {
	return s.apply(func(m *domain.Machine) {
		if finished, done := m.Tick(); done {
			s.emit(finished)
		}
	})
}

// StopOrSkip ends the current interval and persists it. The transition
// completes before persistence starts.
func (s *TimerService) StopOrSkip(action string) domain.State {
	return s.apply(func(m *domain.Machine) {
		s.emit(m.StopOrSkip(action))
	})
}

// Outcomes delivers persistence results. It is closed by Close.
func (s *TimerService) Outcomes() <-chan Outcome {
	return s.outcomes
}

// Wait blocks until every in-flight interval has been persisted.
func (s *TimerService) Wait() {
	s.inflight.Wait()
}

// Close stops listening for settings, drains in-flight persistence and
// closes the outcome channel. Later actions are ignored.
func (s *TimerService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsubscribe := s.unsubscribe
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
	s.inflight.Wait()
	close(s.outcomes)
}

func (s *TimerService) apply(fn func(m *domain.Machine)) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		fn(s.machine)
	}
	return s.machine.State()
}

// emit must be called with s.mu held.
func (s *TimerService) emit(interval domain.Interval) {
	finishedAt := s.clock.Now()
	s.logger.Info("interval finished", "kind", interval.Kind, "action", interval.Action, "seconds", interval.Seconds)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		status, err := s.recorder.Record(ctx, interval, finishedAt)
		if err != nil {
			s.logger.Warn("session not saved", "kind", interval.Kind, "seconds", interval.Seconds, "err", err)
		}
		outcome := Outcome{Interval: interval, FinishedAt: finishedAt, Status: status, Err: err}
		select {
		case s.outcomes <- outcome:
		default:
			s.logger.Warn("outcome dropped, no listener", "kind", interval.Kind)
		}
	}()
}
