// Package config loads doxysearch settings from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	// DataDir holds the on-disk symbol index and its lock file
	DataDir string `yaml:"data_dir"`
	// SearchDir is a Doxygen html/search directory; empty serves the embedded sample
	SearchDir string `yaml:"search_dir"`
	// Category selects the shard family to load ("all", "classes", ...)
	Category string `yaml:"category"`

	CacheSize     int           `yaml:"cache_size"`
	MaxResults    int           `yaml:"max_results"`
	Watch         bool          `yaml:"watch"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`
	LockTimeout   time.Duration `yaml:"lock_timeout"`

	// MetricsAddr enables the Prometheus endpoint when set (":9090")
	MetricsAddr string `yaml:"metrics_addr"`
}

// Load reads a YAML config file (if provided) and applies DOXYSEARCH_*
// environment overrides on top of the defaults. A malformed override fails
// the load.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration. DataDir is left empty and
// resolved lazily by ResolveDataDir.
func Default() *Config {
	return &Config{
		Category:      "all",
		CacheSize:     256,
		MaxResults:    10,
		WatchDebounce: 500 * time.Millisecond,
		LockTimeout:   5 * time.Second,
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Category == "":
		return fmt.Errorf("invalid config: category must not be empty")
	case c.CacheSize < 0:
		return fmt.Errorf("invalid config: cache_size must be >= 0, got %d", c.CacheSize)
	case c.MaxResults <= 0:
		return fmt.Errorf("invalid config: max_results must be > 0, got %d", c.MaxResults)
	case c.WatchDebounce < 0:
		return fmt.Errorf("invalid config: watch_debounce must be >= 0, got %v", c.WatchDebounce)
	}
	return nil
}

// IndexDir is where the on-disk symbol index lives.
func (c *Config) IndexDir() string {
	return filepath.Join(c.DataDir, "search", "index")
}

// LockPath is the cross-process lock guarding IndexDir.
func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "search", "index.lock")
}

// ResolveDataDir fills DataDir when it was not configured.
// Priority: ~/.doxysearch (created if missing) > ./data
func (c *Config) ResolveDataDir() {
	if c.DataDir != "" {
		return
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		userDataDir := filepath.Join(homeDir, ".doxysearch")
		if err := os.MkdirAll(filepath.Join(userDataDir, "search"), 0755); err == nil {
			c.DataDir = userDataDir
			log.Printf("✓ Data directory: %s (user home)", c.DataDir)
			return
		}
		log.Printf("Warning: Could not create user data directory at %s: %v", userDataDir, err)
	} else {
		log.Printf("Warning: Could not determine user home directory: %v", err)
	}

	c.DataDir = filepath.Join(".", "data")
	os.MkdirAll(filepath.Join(c.DataDir, "search"), 0755)
	log.Printf("⚠️  Data directory (fallback): %s", c.DataDir)
}

// applyEnvOverrides reads DOXYSEARCH_* environment variables and overrides
// the corresponding config fields. A value that does not parse is an error.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DOXYSEARCH_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DOXYSEARCH_SEARCH_DIR"); v != "" {
		cfg.SearchDir = v
	}
	if v := os.Getenv("DOXYSEARCH_CATEGORY"); v != "" {
		cfg.Category = v
	}
	if err := envInt("DOXYSEARCH_CACHE_SIZE", &cfg.CacheSize); err != nil {
		return err
	}
	if err := envInt("DOXYSEARCH_MAX_RESULTS", &cfg.MaxResults); err != nil {
		return err
	}
	if v := os.Getenv("DOXYSEARCH_WATCH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DOXYSEARCH_WATCH=%q: %w", v, err)
		}
		cfg.Watch = b
	}
	if err := envDuration("DOXYSEARCH_WATCH_DEBOUNCE", &cfg.WatchDebounce); err != nil {
		return err
	}
	if err := envDuration("DOXYSEARCH_LOCK_TIMEOUT", &cfg.LockTimeout); err != nil {
		return err
	}
	if v := os.Getenv("DOXYSEARCH_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", name, v, err)
	}
	*dst = n
	return nil
}

func envDuration(name string, dst *time.Duration) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", name, v, err)
	}
	*dst = d
	return nil
}
