package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sessionout "flowmodoro/internal/modules/session/port/out"
	apperrors "flowmodoro/internal/platform/errors"
)

// DefaultLockTTL is how long a lock file may sit before it is treated as
// left behind by a crashed process.
const DefaultLockTTL = 2 * time.Minute

// FileSyncLock is an exclusive-create lock file shared by every process
// using the same data directory.
type FileSyncLock struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

func NewFileSyncLock(path string, ttl time.Duration) sessionout.SyncLock {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &FileSyncLock{path: path, ttl: ttl, now: time.Now}
}

func (l *FileSyncLock) TryAcquire(_ context.Context) (func(), bool, error) {
	ok, err := l.create()
	if err != nil || ok {
		return l.releaser(ok), ok, err
	}
	info, statErr := os.Stat(l.path)
	if statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			ok, err = l.create()
			return l.releaser(ok), ok, err
		}
		return nil, false, fmt.Errorf("%w: stat sync lock: %v", apperrors.ErrLocalStorage, statErr)
	}
	if l.now().Sub(info.ModTime()) < l.ttl {
		return nil, false, nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, false, fmt.Errorf("%w: remove stale sync lock: %v", apperrors.ErrLocalStorage, err)
	}
	ok, err = l.create()
	return l.releaser(ok), ok, err
}

func (l *FileSyncLock) create() (bool, error) {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: create sync lock: %v", apperrors.ErrLocalStorage, err)
	}
	_, _ = file.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	if err := file.Close(); err != nil {
		return false, fmt.Errorf("%w: close sync lock: %v", apperrors.ErrLocalStorage, err)
	}
	return true, nil
}

func (l *FileSyncLock) releaser(ok bool) func() {
	if !ok {
		return nil
	}
	return func() { _ = os.Remove(l.path) }
}
