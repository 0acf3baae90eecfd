package config_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/airsim/doxysearch/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doxysearch.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
data_dir: /var/lib/doxysearch
search_dir: /srv/docs/html/search
category: classes
cache_size: 32
max_results: 25
watch: true
watch_debounce: 2s
metrics_addr: ":9090"
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := config.Default()
	want.DataDir = "/var/lib/doxysearch"
	want.SearchDir = "/srv/docs/html/search"
	want.Category = "classes"
	want.CacheSize = 32
	want.MaxResults = 25
	want.Watch = true
	want.WatchDebounce = 2 * time.Second
	want.MetricsAddr = ":9090"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "category: classes\nmax_results: 25\n")
	t.Setenv("DOXYSEARCH_CATEGORY", "all")
	t.Setenv("DOXYSEARCH_WATCH", "true")
	t.Setenv("DOXYSEARCH_LOCK_TIMEOUT", "1s")
	t.Setenv("DOXYSEARCH_CACHE_SIZE", "64")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Category != "all" {
		t.Errorf("Category = %q, want env override %q", cfg.Category, "all")
	}
	if cfg.MaxResults != 25 {
		t.Errorf("MaxResults = %d, want file value 25", cfg.MaxResults)
	}
	if !cfg.Watch {
		t.Error("Watch should be enabled by env")
	}
	if cfg.LockTimeout != time.Second {
		t.Errorf("LockTimeout = %v, want 1s", cfg.LockTimeout)
	}
	if cfg.CacheSize != 64 {
		t.Errorf("CacheSize = %d, want env override 64", cfg.CacheSize)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"DOXYSEARCH_CACHE_SIZE", "not-a-number"},
		{"DOXYSEARCH_MAX_RESULTS", "abc"},
		{"DOXYSEARCH_WATCH", "sometimes"},
		{"DOXYSEARCH_WATCH_DEBOUNCE", "5x"},
		{"DOXYSEARCH_LOCK_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.name, tt.value)

			_, err := config.Load("")
			if err == nil {
				t.Fatalf("expected %s=%q to fail the load", tt.name, tt.value)
			}
			if !strings.Contains(err.Error(), tt.name) || !strings.Contains(err.Error(), tt.value) {
				t.Errorf("error %q does not name %s=%q", err, tt.name, tt.value)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"invalid yaml", "category: [", "parsing config file"},
		{"empty category", "category: \"\"", "category must not be empty"},
		{"negative cache", "cache_size: -1", "cache_size"},
		{"zero results", "max_results: 0", "max_results"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestResolveDataDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := config.Default()
	cfg.ResolveDataDir()
	want := filepath.Join(home, ".doxysearch")
	if cfg.DataDir != want {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, want)
	}
	if info, err := os.Stat(filepath.Join(want, "search")); err != nil || !info.IsDir() {
		t.Errorf("search directory not created: %v", err)
	}
	if cfg.IndexDir() != filepath.Join(want, "search", "index") {
		t.Errorf("IndexDir() = %q", cfg.IndexDir())
	}

	// an explicit data dir is left alone
	cfg = config.Default()
	cfg.DataDir = "/explicit"
	cfg.ResolveDataDir()
	if cfg.DataDir != "/explicit" {
		t.Errorf("DataDir = %q, want /explicit", cfg.DataDir)
	}
}
