package tools

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/airsim/doxysearch/internal/symbols"
)

// Index is the full-text symbol index searched by search_symbols.
// bleve.Index satisfies it directly; tests substitute mockIndex.
type Index interface {
	symbols.Searcher

	// DocCount returns the number of symbol documents in the index
	DocCount() (uint64, error)

	// Close closes the index
	Close() error
}

// indexRef is one generation of the symbol index. In-flight searches hold
// inUse for reading; the index is closed under the write lock.
type indexRef struct {
	idx    Index
	inUse  sync.RWMutex
	closed bool // guarded by inUse
}

func (r *indexRef) release() {
	r.inUse.RUnlock()
}

// closeWhenIdle waits for in-flight searches, then closes the index.
func (r *indexRef) closeWhenIdle() error {
	r.inUse.Lock()
	defer r.inUse.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.idx.Close()
}

// indexHolder manages concurrent access to the symbol index
type indexHolder struct {
	// current holds the active index (atomic access for lock-free reads)
	current atomic.Pointer[indexRef]

	// refreshMu serializes reloads. Searches never take it.
	refreshMu sync.Mutex

	// closers tracks background closes of replaced indexes
	closers sync.WaitGroup
}

// acquire returns the current index generation with a search registered on
// it, or nil when no index is installed. The caller must release it.
func (h *indexHolder) acquire() *indexRef {
	for {
		ref := h.current.Load()
		if ref == nil {
			return nil
		}
		ref.inUse.RLock()
		if !ref.closed {
			return ref
		}
		// swapped out and closed between Load and RLock; the holder
		// already points at a newer generation
		ref.inUse.RUnlock()
	}
}

// swap installs idx and closes the previous index in the background once
// the searches running against it have finished.
func (h *indexHolder) swap(idx Index) {
	old := h.current.Swap(&indexRef{idx: idx})
	if old == nil {
		return
	}

	h.closers.Add(1)
	go func() {
		defer h.closers.Done()

		waitStart := time.Now()
		if err := old.closeWhenIdle(); err != nil {
			log.Printf("Warning: Error closing old symbol index: %v", err)
			return
		}
		log.Printf("✓ Old symbol index closed (waited %v for in-flight searches)",
			time.Since(waitStart).Round(time.Millisecond))
	}()
}

// close detaches the current index, waits for in-flight searches and
// background closes, then closes it.
func (h *indexHolder) close() error {
	ref := h.current.Swap(nil)
	h.closers.Wait()
	if ref == nil {
		return nil
	}
	return ref.closeWhenIdle()
}
