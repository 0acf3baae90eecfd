package tools

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryWait = 100 * time.Millisecond

// FileLock is the cross-process lock around on-disk symbol index rebuilds.
// Several servers may share one data directory; only one rebuilds at a time.
type FileLock struct {
	path    string
	flock   *flock.Flock
	timeout time.Duration
}

// NewFileLock creates a lock backed by the file at path.
func NewFileLock(path string, timeout time.Duration) *FileLock {
	return &FileLock{
		path:    path,
		flock:   flock.New(path),
		timeout: timeout,
	}
}

// Lock acquires the lock, retrying until the timeout or ctx expires.
func (l *FileLock) Lock(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	startTime := time.Now()
	locked, err := l.flock.TryLockContext(ctx, lockRetryWait)
	if err != nil {
		return fmt.Errorf("timeout waiting for index lock after %v: %w",
			time.Since(startTime).Round(100*time.Millisecond), err)
	}
	if !locked {
		return fmt.Errorf("index lock %s held by another process", l.path)
	}

	if elapsed := time.Since(startTime); elapsed > lockRetryWait {
		log.Printf("✓ Index lock acquired after %v", elapsed.Round(time.Millisecond))
	}
	return nil
}

// Unlock releases the lock. It is safe to call on an unlocked FileLock.
func (l *FileLock) Unlock() error {
	if !l.flock.Locked() {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release index lock: %w", err)
	}
	return nil
}

// Path returns the path to the lock file.
func (l *FileLock) Path() string {
	return l.path
}
