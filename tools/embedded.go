package tools

import (
	"embed"
	"io/fs"
)

// Embed a sample Doxygen search directory into the binary
// This ensures the MCP server answers lookups standalone, before any
// search_dir is configured or when the configured one cannot be read.
//
// Embedded files:
// - searchdata.js (section declarations)
// - all_0.js (the "all" shard)

//go:embed data/search/*
var embeddedFS embed.FS

// embeddedDataProvider implements DataProvider using embed.FS.
// This is the production implementation that uses actual embedded files.
type embeddedDataProvider struct {
	fs embed.FS
}

// NewEmbeddedDataProvider creates a production DataProvider that uses embedded files.
func NewEmbeddedDataProvider() DataProvider {
	return &embeddedDataProvider{fs: embeddedFS}
}

// ReadFile reads the named file from the embedded filesystem.
func (p *embeddedDataProvider) ReadFile(name string) ([]byte, error) {
	return p.fs.ReadFile(name)
}

// ReadDir reads the named directory from the embedded filesystem.
func (p *embeddedDataProvider) ReadDir(name string) ([]fs.DirEntry, error) {
	return p.fs.ReadDir(name)
}

// EmbeddedSearchFS returns the embedded sample search directory.
func EmbeddedSearchFS() fs.FS {
	return providerFS{p: NewEmbeddedDataProvider(), root: embeddedSearchDir}
}
