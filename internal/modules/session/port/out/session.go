package out

import (
	"context"

	"flowmodoro/internal/modules/session/domain"
)

// LocalStore is the append-only offline buffer. Entries are never removed,
// only appended or flagged confirmed.
type LocalStore interface {
	Append(ctx context.Context, record domain.Record) error
	ScanByDay(ctx context.Context, day string) ([]domain.Record, error)
	ScanUnconfirmed(ctx context.Context) ([]domain.Record, error)
	MarkConfirmed(ctx context.Context, id, serverID string) error
}

// RemoteService is the collector client. Every transport or server failure
// is reported as apperrors.ErrRemoteUnavailable; rejected payloads as
// apperrors.ErrInvalidInput.
type RemoteService interface {
	CreateSession(ctx context.Context, record domain.Record) (string, error)
	Totals(ctx context.Context, day string) (domain.DayTotals, error)
	Ping(ctx context.Context) error
}

// SyncLock keeps reconcile passes in different processes from pushing the
// same buffered record twice. ok is false when another holder has it.
type SyncLock interface {
	TryAcquire(ctx context.Context) (release func(), ok bool, err error)
}
