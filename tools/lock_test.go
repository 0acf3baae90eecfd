package tools

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestFileLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "search", "index.lock")

	t.Run("acquire and release lock", func(t *testing.T) {
		lock := NewFileLock(lockPath, time.Second)
		if err := lock.Lock(context.Background()); err != nil {
			t.Fatalf("Failed to acquire lock: %v", err)
		}
		if err := lock.Unlock(); err != nil {
			t.Fatalf("Failed to release lock: %v", err)
		}

		// Unlock on an unlocked lock is a no-op
		if err := lock.Unlock(); err != nil {
			t.Errorf("Second Unlock() failed: %v", err)
		}
	})

	t.Run("timeout on held lock", func(t *testing.T) {
		holder := NewFileLock(lockPath, time.Second)
		if err := holder.Lock(context.Background()); err != nil {
			t.Fatalf("Failed to acquire lock: %v", err)
		}
		defer holder.Unlock()

		// A second flock handle on the same file conflicts like another process would
		waiter := NewFileLock(lockPath, 300*time.Millisecond)
		start := time.Now()
		err := waiter.Lock(context.Background())
		elapsed := time.Since(start)

		if err == nil {
			waiter.Unlock()
			t.Fatal("Expected error acquiring held lock, got nil")
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Expected deadline error, got %v", err)
		}
		if elapsed < 250*time.Millisecond || elapsed > 2*time.Second {
			t.Errorf("Expected timeout of ~300ms, got %v", elapsed)
		}
	})

	t.Run("acquire after release by other holder", func(t *testing.T) {
		holder := NewFileLock(lockPath, time.Second)
		if err := holder.Lock(context.Background()); err != nil {
			t.Fatalf("Failed to acquire lock: %v", err)
		}

		done := make(chan error, 1)
		go func() {
			waiter := NewFileLock(lockPath, 5*time.Second)
			err := waiter.Lock(context.Background())
			if err == nil {
				err = waiter.Unlock()
			}
			done <- err
		}()

		time.Sleep(150 * time.Millisecond)
		holder.Unlock()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Waiter failed to acquire released lock: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("Waiter never acquired the lock")
		}
	})
}
