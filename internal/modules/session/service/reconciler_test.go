package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	sessionadapter "flowmodoro/internal/modules/session/adapter/out"
	"flowmodoro/internal/modules/session/domain"
	"flowmodoro/internal/modules/session/service"
	apperrors "flowmodoro/internal/platform/errors"
	"flowmodoro/internal/platform/logging"
)

func TestOfflineRoundTrip(t *testing.T) {
	t.Parallel()
	remote := &fakeRemote{}
	local := newLocal(t)
	persist := service.NewPersistService(fakeClock{}, &seqID{}, time.UTC, local, remote, logging.Discard())
	reconciler := service.NewReconciler(local, remote, nil, logging.Discard())
	ctx := context.Background()

	result, err := persist.Persist(ctx, persist.NewRecord(1500, "flow", "stop", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)))
	if err != nil || result.Status != domain.StatusBuffered {
		t.Fatalf("expected buffered, got %+v (%v)", result, err)
	}

	report, err := reconciler.Reconcile(ctx)
	if err != nil {
		t.Fatalf("offline reconcile: %v", err)
	}
	if report.Attempted != 1 || report.Failed != 1 || report.Confirmed != 0 {
		t.Fatalf("unexpected offline report %+v", report)
	}

	remote.setOnline(true)
	report, err = reconciler.Reconcile(ctx)
	if err != nil {
		t.Fatalf("online reconcile: %v", err)
	}
	if report.Attempted != 1 || report.Confirmed != 1 {
		t.Fatalf("unexpected online report %+v", report)
	}
	records, _ := local.ScanByDay(ctx, "2024-01-01")
	if len(records) != 1 || !records[0].Confirmed || records[0].ID != "1" {
		t.Fatalf("expected confirmed record with server id, got %+v", records)
	}

	report, err = reconciler.Reconcile(ctx)
	if err != nil || report.Attempted != 0 {
		t.Fatalf("nothing should be retried, got %+v (%v)", report, err)
	}
	if remote.storedCount() != 1 {
		t.Fatalf("expected exactly one remote record, got %d", remote.storedCount())
	}
}

func TestReconcileContinuesAfterFailure(t *testing.T) {
	t.Parallel()
	remote := &fakeRemote{online: true}
	local := newLocal(t)
	ctx := context.Background()
	for i, id := range []string{"local-a", "local-b", "local-c"} {
		rec := domain.Record{ID: id, Seconds: 60 * (i + 1), Kind: "flow", Timestamp: "2024-01-01T09:00:00.000Z", LocalDay: "2024-01-01"}
		if err := local.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	failing := &flakyRemote{fakeRemote: remote, failID: "local-b"}
	report, err := service.NewReconciler(local, failing, nil, logging.Discard()).Reconcile(ctx)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if report.Attempted != 3 || report.Confirmed != 2 || report.Failed != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	pending, _ := local.ScanUnconfirmed(ctx)
	if len(pending) != 1 || pending[0].ID != "local-b" {
		t.Fatalf("failed record must stay pending untouched, got %+v", pending)
	}
}

func TestRunPeriodicSyncsOnReconnect(t *testing.T) {
	t.Parallel()
	remote := &fakeRemote{}
	local := newLocal(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := local.Append(ctx, domain.Record{ID: "local-1", Seconds: 10, Kind: "flow", Timestamp: "2024-01-01T09:00:00.000Z", LocalDay: "2024-01-01"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	done := make(chan struct{})
	go func() {
		service.NewReconciler(local, remote, nil, logging.Discard()).RunPeriodic(ctx, 10*time.Millisecond)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	remote.setOnline(true)

	deadline := time.Now().Add(2 * time.Second)
	for remote.storedCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if remote.storedCount() != 1 {
		t.Fatalf("expected buffered record to reach the collector after reconnect")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("RunPeriodic did not stop on cancel")
	}
}

type flakyRemote struct {
	*fakeRemote
	failID string
}

func (f *flakyRemote) CreateSession(ctx context.Context, record domain.Record) (string, error) {
	if record.ID == f.failID {
		return "", &apperrors.RemoteError{Op: "create session", Status: 503, Err: apperrors.ErrRemoteUnavailable}
	}
	return f.fakeRemote.CreateSession(ctx, record)
}

func TestReconcileSkipsWhileAnotherProcessHoldsTheLock(t *testing.T) {
	t.Parallel()
	remote := &fakeRemote{}
	local := newLocal(t)
	ctx := context.Background()
	persist := service.NewPersistService(fakeClock{}, &seqID{}, time.UTC, local, remote, logging.Discard())
	if _, err := persist.Persist(ctx, persist.NewRecord(600, "flow", "skip", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("persist: %v", err)
	}
	remote.setOnline(true)

	lockPath := filepath.Join(t.TempDir(), "sessions.v1.json.lock")
	other := sessionadapter.NewFileSyncLock(lockPath, time.Minute)
	release, ok, err := other.TryAcquire(ctx)
	if err != nil || !ok {
		t.Fatalf("acquire: ok=%v err=%v", ok, err)
	}

	reconciler := service.NewReconciler(local, remote, sessionadapter.NewFileSyncLock(lockPath, time.Minute), logging.Discard())
	report, err := reconciler.Reconcile(ctx)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !report.Skipped || remote.storedCount() != 0 {
		t.Fatalf("expected skipped pass with no pushes, got %+v stored=%d", report, remote.storedCount())
	}

	release()
	report, err = reconciler.Reconcile(ctx)
	if err != nil || report.Confirmed != 1 {
		t.Fatalf("expected one confirmed after release, got %+v (%v)", report, err)
	}
	if remote.storedCount() != 1 {
		t.Fatalf("expected exactly one remote record, got %d", remote.storedCount())
	}
}
