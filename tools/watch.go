package tools

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/airsim/doxysearch/internal/searchdata"
)

// watcher reloads the service when the search directory changes. Bursts of
// events (a documentation rebuild rewrites every shard) are coalesced into
// one reload after the debounce window.
type watcher struct {
	fsw    *fsnotify.Watcher
	cancel context.CancelFunc
	done   chan struct{}
}

// Watch starts reloading on changes to *.js files in the configured search
// directory. It is a no-op when serving the embedded sample.
func (s *Service) Watch(ctx context.Context) error {
	if s.cfg.SearchDir == "" {
		return nil
	}

	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.watcher != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(s.cfg.SearchDir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", s.cfg.SearchDir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &watcher{fsw: fsw, cancel: cancel, done: make(chan struct{})}
	s.watcher = w

	go s.watchLoop(ctx, w)
	log.Printf("✓ Watching %s for changes (debounce %v)", s.cfg.SearchDir, s.cfg.WatchDebounce)
	return nil
}

// StopWatching stops the watcher started by Watch and waits for it to exit.
func (s *Service) StopWatching() {
	s.watchMu.Lock()
	w := s.watcher
	s.watcher = nil
	s.watchMu.Unlock()

	if w == nil {
		return
	}
	w.cancel()
	<-w.done
}

func (s *Service) watchLoop(ctx context.Context, w *watcher) {
	defer close(w.done)
	defer w.fsw.Close()

	// Reset discards a pending fire, so the timer only runs once a burst ends
	timer := time.NewTimer(s.cfg.WatchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !isSearchFile(event) {
				continue
			}
			timer.Reset(s.cfg.WatchDebounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("Warning: File watcher error: %v", err)
		case <-timer.C:
			if _, err := s.Reload(ctx, false); err != nil {
				log.Printf("Warning: Automatic reload failed: %v", err)
			}
		}
	}
}

// isSearchFile reports whether event touches a shard or searchdata.js.
func isSearchFile(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == event.Op {
		return false
	}
	name := filepath.Base(event.Name)
	return name == searchdata.SectionsFile || strings.HasSuffix(name, ".js")
}
