package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"flowmodoro/internal/modules/session/domain"
	sessionout "flowmodoro/internal/modules/session/port/out"
	apperrors "flowmodoro/internal/platform/errors"
)

// Reconciler pushes buffered records to the collector. Only one pass runs at
// a time, in this process and, when a SyncLock is given, across processes
// sharing the store. An overlapping call returns a skipped report.
type Reconciler struct {
	local   sessionout.LocalStore
	remote  sessionout.RemoteService
	lock    sessionout.SyncLock
	logger  *log.Logger
	running atomic.Bool
}

// NewReconciler builds a reconciler. lock may be nil when only one process
// uses the local store.
func NewReconciler(local sessionout.LocalStore, remote sessionout.RemoteService, lock sessionout.SyncLock, logger *log.Logger) *Reconciler {
	return &Reconciler{local: local, remote: remote, lock: lock, logger: logger}
}

// Reconcile pushes every unconfirmed record once. Failures are counted and
// left for the next pass.
func (r *Reconciler) Reconcile(ctx context.Context) (domain.SyncReport, error) {
	if !r.running.CompareAndSwap(false, true) {
		return domain.SyncReport{Skipped: true}, nil
	}
	defer r.running.Store(false)

	if r.lock != nil {
		release, ok, err := r.lock.TryAcquire(ctx)
		if err != nil {
			return domain.SyncReport{}, err
		}
		if !ok {
			r.logger.Debug("sync held by another process")
			return domain.SyncReport{Skipped: true}, nil
		}
		defer release()
	}

	pending, err := r.local.ScanUnconfirmed(ctx)
	if err != nil {
		return domain.SyncReport{}, err
	}
	report := domain.SyncReport{}
	for _, record := range pending {
		if ctx.Err() != nil {
			break
		}
		report.Attempted++
		serverID, err := r.remote.CreateSession(ctx, record)
		if err != nil {
			report.Failed++
			if errors.Is(err, apperrors.ErrInvalidInput) {
				r.logger.Error("collector rejected buffered session", "id", record.ID, "err", err)
			} else {
				r.logger.Debug("buffered session still pending", "id", record.ID, "err", err)
			}
			continue
		}
		if err := r.local.MarkConfirmed(ctx, record.ID, serverID); err != nil {
			report.Failed++
			r.logger.Error("mark session confirmed failed", "id", record.ID, "server_id", serverID, "err", err)
			continue
		}
		report.Confirmed++
	}
	if report.Attempted > 0 {
		r.logger.Info("sync finished", "attempted", report.Attempted, "confirmed", report.Confirmed, "failed", report.Failed)
	}
	return report, nil
}

// RunPeriodic reconciles once, then pings the collector every interval and
// reconciles whenever it is reachable and records are pending. It returns
// when ctx is cancelled.
func (r *Reconciler) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	if _, err := r.Reconcile(ctx); err != nil {
		r.logger.Warn("startup sync failed", "err", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	online := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.remote.Ping(ctx); err != nil {
				if online {
					r.logger.Info("collector offline", "err", err)
				}
				online = false
				continue
			}
			if !online {
				r.logger.Info("collector back online")
			}
			online = true
			pending, err := r.local.ScanUnconfirmed(ctx)
			if err != nil {
				r.logger.Warn("scan pending sessions failed", "err", err)
				continue
			}
			if len(pending) == 0 {
				continue
			}
			if _, err := r.Reconcile(ctx); err != nil {
				r.logger.Warn("sync failed", "err", err)
			}
		}
	}
}
