package tools

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/airsim/doxysearch/internal/config"
	"github.com/airsim/doxysearch/internal/metrics"
	"github.com/airsim/doxysearch/internal/searchdata"
	"github.com/airsim/doxysearch/internal/symbols"
)

const (
	embeddedSearchDir = "data/search"
	embeddedSource    = "embedded"
	digestFile        = ".index_digest"
	maxResultsCap     = 50
)

// ErrNotReady is returned when no search table has been loaded yet.
var ErrNotReady = errors.New("symbol search unavailable: no search table loaded")

// tableState is one loaded generation of the search table. It is replaced
// wholesale on reload; its cache dies with it.
type tableState struct {
	table    *searchdata.Table
	sections []searchdata.Section
	source   string
	digest   string
	loadedAt time.Time
	cache    *lru.Cache[string, []searchdata.IndexEntry]
}

// Service owns the served search table and the symbol index built from it.
// Lookups and searches are lock-free; reloads swap both atomically.
type Service struct {
	cfg      *config.Config
	provider DataProvider
	metrics  *metrics.Metrics
	lock     *FileLock

	state    atomic.Pointer[tableState]
	indexMgr indexHolder

	watchMu sync.Mutex
	watcher *watcher
}

// NewService creates a service. Nothing is loaded until Init. A nil m
// registers the collectors with a private registry.
func NewService(cfg *config.Config, provider DataProvider, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.New(prometheus.NewRegistry())
	}
	s := &Service{
		cfg:      cfg,
		provider: provider,
		metrics:  m,
	}
	if cfg.DataDir != "" {
		s.lock = NewFileLock(cfg.LockPath(), cfg.LockTimeout)
	}
	return s
}

// Init loads the search table and builds its symbol index.
// Priority: configured search_dir > embedded sample
func (s *Service) Init(ctx context.Context) error {
	s.indexMgr.refreshMu.Lock()
	defer s.indexMgr.refreshMu.Unlock()
	if s.state.Load() != nil {
		return nil
	}

	startTime := time.Now()
	log.Printf("Initializing symbol search...")

	state, err := s.loadState(ctx)
	if err != nil {
		if s.cfg.SearchDir == "" {
			return fmt.Errorf("failed to load embedded search data: %w", err)
		}
		log.Printf("Warning: Failed to load search directory %s: %v", s.cfg.SearchDir, err)
		log.Printf("Falling back to embedded search data")
		if state, err = s.loadEmbedded(ctx); err != nil {
			return fmt.Errorf("failed to load embedded search data: %w", err)
		}
	}

	index, err := s.buildIndex(ctx, state)
	if err != nil {
		return fmt.Errorf("failed to build symbol index: %w", err)
	}
	s.install(state, index)

	log.Printf("✓ Symbol search initialized (%d keys, %d matches, source: %s) in %v",
		state.table.Len(), state.table.MatchCount(), state.source,
		time.Since(startTime).Round(time.Millisecond))
	return nil
}

// ensureReady initializes the service on first use when Init failed or was
// never called.
func (s *Service) ensureReady(ctx context.Context) (*tableState, error) {
	if st := s.state.Load(); st != nil {
		return st, nil
	}
	log.Printf("Symbol search not initialized, initializing now...")
	if err := s.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize symbol search: %w", err)
	}
	st := s.state.Load()
	if st == nil {
		return nil, ErrNotReady
	}
	return st, nil
}

// loadState loads the configured search directory, or the embedded sample
// when none is configured.
func (s *Service) loadState(ctx context.Context) (*tableState, error) {
	if s.cfg.SearchDir == "" {
		return s.loadEmbedded(ctx)
	}
	return s.newState(ctx, os.DirFS(s.cfg.SearchDir), s.cfg.SearchDir)
}

func (s *Service) loadEmbedded(ctx context.Context) (*tableState, error) {
	return s.newState(ctx, providerFS{p: s.provider, root: embeddedSearchDir}, embeddedSource)
}

func (s *Service) newState(ctx context.Context, fsys fs.FS, source string) (*tableState, error) {
	table, err := searchdata.LoadDir(ctx, fsys, s.cfg.Category)
	if err != nil {
		return nil, err
	}

	sections, err := searchdata.LoadSectionsFS(fsys)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		sections = []searchdata.Section{{Name: s.cfg.Category, Label: s.cfg.Category}}
	}

	sum := sha256.Sum256(table.Marshal())
	state := &tableState{
		table:    table,
		sections: sections,
		source:   source,
		digest:   hex.EncodeToString(sum[:]),
		loadedAt: time.Now(),
	}
	if s.cfg.CacheSize > 0 {
		state.cache, _ = lru.New[string, []searchdata.IndexEntry](s.cfg.CacheSize)
	}
	return state, nil
}

// buildIndex returns a symbol index for state. Tables loaded from a search
// directory are indexed on disk under the data directory, reusing an index
// whose digest matches; the embedded sample is indexed in memory.
func (s *Service) buildIndex(ctx context.Context, state *tableState) (Index, error) {
	docs := symbols.Documents(state.table)
	if s.lock == nil || state.source == embeddedSource {
		return symbols.NewMemIndex(docs)
	}

	dir := s.cfg.IndexDir()
	if err := s.lock.Lock(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire index lock: %w", err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			log.Printf("Error releasing lock: %v", err)
		}
	}()

	if readDigest(dir) == state.digest {
		index, err := symbols.Open(dir)
		if err == nil {
			log.Printf("✓ Reusing on-disk symbol index %s", dir)
			return index, nil
		}
		log.Printf("Warning: On-disk symbol index unusable, rebuilding: %v", err)
	}

	if err := symbols.Build(dir, docs); err != nil {
		return nil, err
	}
	if err := writeDigest(dir, state.digest); err != nil {
		log.Printf("Warning: Failed to write index digest: %v", err)
	}
	return symbols.Open(dir)
}

// install publishes a new generation: table first, then its index.
func (s *Service) install(state *tableState, index Index) {
	s.state.Store(state)
	s.indexMgr.swap(index)

	s.metrics.TableEntries.Set(float64(state.table.Len()))
	s.metrics.TableMatches.Set(float64(state.table.MatchCount()))
	if count, err := index.DocCount(); err == nil {
		s.metrics.IndexedSymbols.Set(float64(count))
	}
}

// Lookup returns the entries whose key starts with prefix, in file order.
// Results are cached per table generation; callers must not modify them.
func (s *Service) Lookup(ctx context.Context, prefix string) ([]searchdata.IndexEntry, error) {
	st, err := s.ensureReady(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() { s.metrics.LookupLatency.Observe(time.Since(start).Seconds()) }()

	key := searchdata.NormalizePrefix(prefix)
	var entries []searchdata.IndexEntry
	cached := false
	if st.cache != nil {
		entries, cached = st.cache.Get(key)
	}
	if cached {
		s.metrics.CacheHitsTotal.Inc()
	} else {
		s.metrics.CacheMissesTotal.Inc()
		entries = st.table.Lookup(prefix)
		if st.cache != nil {
			st.cache.Add(key, entries)
		}
	}

	if len(entries) == 0 {
		s.metrics.LookupsTotal.WithLabelValues("zero_result").Inc()
	} else {
		s.metrics.LookupsTotal.WithLabelValues("hit").Inc()
	}
	return entries, nil
}

// Search runs a full-text query against the current symbol index.
func (s *Service) Search(ctx context.Context, q symbols.Query) (*symbols.Result, error) {
	if _, err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	ref := s.indexMgr.acquire()
	if ref == nil {
		return nil, ErrNotReady
	}
	defer ref.release()

	q.Limit = s.clampLimit(q.Limit)
	start := time.Now()
	res, err := symbols.Search(ref.idx, q)
	s.metrics.SearchLatency.Observe(time.Since(start).Seconds())
	switch {
	case err != nil:
		s.metrics.SearchQueriesTotal.WithLabelValues("error").Inc()
		return nil, err
	case len(res.Hits) == 0:
		s.metrics.SearchQueriesTotal.WithLabelValues("zero_result").Inc()
	default:
		s.metrics.SearchQueriesTotal.WithLabelValues("hit").Inc()
	}
	return res, nil
}

// clampLimit applies the configured default and the hard cap.
func (s *Service) clampLimit(n int) int {
	if n <= 0 {
		n = s.cfg.MaxResults
	}
	if n > maxResultsCap {
		n = maxResultsCap
	}
	return n
}

// Table returns the served table, or nil before Init.
func (s *Service) Table() *searchdata.Table {
	if st := s.state.Load(); st != nil {
		return st.table
	}
	return nil
}

// Sections returns the index categories declared by the served directory.
func (s *Service) Sections() []searchdata.Section {
	if st := s.state.Load(); st != nil {
		return append([]searchdata.Section(nil), st.sections...)
	}
	return nil
}

// Source names where the served table came from: a directory or "embedded".
func (s *Service) Source() string {
	if st := s.state.Load(); st != nil {
		return st.source
	}
	return ""
}

// ReloadReport describes the outcome of a reload.
type ReloadReport struct {
	Updated        bool      `json:"updated"`
	Source         string    `json:"source"`
	Keys           int       `json:"keys"`
	Matches        int       `json:"matches"`
	SymbolsIndexed int       `json:"symbols_indexed"`
	LoadedAt       time.Time `json:"loaded_at"`
	Message        string    `json:"message"`
}

// Reload re-reads the search source and swaps in the new table and index.
// An unchanged table is kept unless force is set. On failure the current
// table stays in service.
func (s *Service) Reload(ctx context.Context, force bool) (ReloadReport, error) {
	startTime := time.Now()

	// Serialize reload operations (prevent concurrent reloads)
	s.indexMgr.refreshMu.Lock()
	defer s.indexMgr.refreshMu.Unlock()

	log.Printf("Starting search table reload (force=%v)...", force)
	state, err := s.loadState(ctx)
	if err != nil {
		s.metrics.ReloadsTotal.WithLabelValues("failure").Inc()
		return ReloadReport{}, fmt.Errorf("reload failed, keeping current table: %w", err)
	}

	current := s.state.Load()
	if !force && current != nil && current.digest == state.digest {
		s.metrics.ReloadsTotal.WithLabelValues("unchanged").Inc()
		report := s.report(current, false)
		report.Message = fmt.Sprintf("Search table unchanged (loaded: %s)", current.loadedAt.Format(time.RFC3339))
		log.Printf("Search table unchanged, skipping reload")
		return report, nil
	}

	index, err := s.buildIndex(ctx, state)
	if err != nil {
		s.metrics.ReloadsTotal.WithLabelValues("failure").Inc()
		return ReloadReport{}, fmt.Errorf("reload failed, keeping current table: %w", err)
	}
	s.install(state, index)
	s.metrics.ReloadsTotal.WithLabelValues("success").Inc()

	report := s.report(state, true)
	report.Message = fmt.Sprintf("Search table reloaded: %d keys, %d symbols indexed", report.Keys, report.SymbolsIndexed)
	log.Printf("✓ Search table reload completed in %v", time.Since(startTime).Round(time.Millisecond))
	return report, nil
}

func (s *Service) report(st *tableState, updated bool) ReloadReport {
	r := ReloadReport{
		Updated:  updated,
		Source:   st.source,
		Keys:     st.table.Len(),
		Matches:  st.table.MatchCount(),
		LoadedAt: st.loadedAt,
	}
	if ref := s.indexMgr.acquire(); ref != nil {
		if count, err := ref.idx.DocCount(); err == nil {
			r.SymbolsIndexed = int(count)
		}
		ref.release()
	}
	return r
}

// Close stops the watcher and closes the symbol index once in-flight
// searches finish.
func (s *Service) Close() error {
	s.StopWatching()

	err := s.indexMgr.close()
	if err != nil {
		log.Printf("Error closing symbol index: %v", err)
	} else {
		log.Printf("✓ Symbol index closed successfully")
	}

	if s.lock != nil {
		if uerr := s.lock.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}
	return err
}

func digestPath(indexDir string) string {
	return filepath.Join(filepath.Dir(indexDir), digestFile)
}

func readDigest(indexDir string) string {
	data, err := os.ReadFile(digestPath(indexDir))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func writeDigest(indexDir, digest string) error {
	return os.WriteFile(digestPath(indexDir), []byte(digest), 0644)
}
