package symbols

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// ErrStaleIndex is returned by Open when the on-disk index was built with a
// different schema version.
var ErrStaleIndex = errors.New("symbol index schema version mismatch")

// NewMapping returns the index mapping for SymbolDoc. Identifier-like fields
// are indexed verbatim; everything else goes through the standard analyzer.
func NewMapping() mapping.IndexMapping {
	keyword := bleve.NewKeywordFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("key", keyword)
	doc.AddFieldMappingsAt("kind", keyword)
	doc.AddFieldMappingsAt("url", keyword)
	doc.AddFieldMappingsAt("id", keyword)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// NewMemIndex builds an in-memory index holding docs.
func NewMemIndex(docs []SymbolDoc) (bleve.Index, error) {
	index, err := bleve.NewMemOnly(NewMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create memory index: %w", err)
	}
	if err := indexDocs(index, docs); err != nil {
		index.Close()
		return nil, err
	}
	return index, nil
}

// Build writes an index holding docs to dir. The index is created next to
// dir and renamed into place once complete, so a reader never sees a
// half-built index. The schema version is recorded in VersionFile beside dir.
func Build(dir string, docs []SymbolDoc) error {
	startTime := time.Now()
	tempDir := dir + ".tmp"

	// Clean up any leftover temp index from previous crash
	os.RemoveAll(tempDir)

	if err := os.MkdirAll(filepath.Dir(tempDir), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	index, err := bleve.New(tempDir, NewMapping())
	if err != nil {
		return fmt.Errorf("failed to create temp index: %w", err)
	}
	if err := indexDocs(index, docs); err != nil {
		index.Close()
		os.RemoveAll(tempDir)
		return err
	}
	if err := index.Close(); err != nil {
		os.RemoveAll(tempDir)
		return fmt.Errorf("failed to close temp index: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		os.RemoveAll(tempDir)
		return fmt.Errorf("failed to remove old index: %w", err)
	}
	if err := os.Rename(tempDir, dir); err != nil {
		os.RemoveAll(tempDir)
		return fmt.Errorf("failed to rename temp index: %w", err)
	}

	if err := writeVersion(dir); err != nil {
		log.Printf("Warning: Failed to write index version: %v", err)
	}

	log.Printf("✓ Indexed %d symbols in %v", len(docs), time.Since(startTime).Round(time.Millisecond))
	return nil
}

// Open opens the index at dir read-only if it was built with the current
// schema. Several servers sharing a data directory may hold it open at once.
func Open(dir string) (bleve.Index, error) {
	if v := readVersion(dir); v != IndexSchemaVersion {
		return nil, fmt.Errorf("%w (have: v%d, want: v%d)", ErrStaleIndex, v, IndexSchemaVersion)
	}
	index, err := bleve.OpenUsing(dir, map[string]interface{}{"read_only": true})
	if err != nil {
		return nil, fmt.Errorf("failed to open symbol index: %w", err)
	}
	return index, nil
}

// indexDocs submits docs in batches of BatchSize.
func indexDocs(index bleve.Index, docs []SymbolDoc) error {
	batch := index.NewBatch()
	for i, doc := range docs {
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("failed to add symbol %s to batch: %w", doc.ID, err)
		}

		if (i+1)%BatchSize == 0 {
			if err := index.Batch(batch); err != nil {
				return fmt.Errorf("failed to index batch: %w", err)
			}
			batch = index.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("failed to index final batch: %w", err)
		}
	}
	return nil
}

func versionPath(dir string) string {
	return filepath.Join(filepath.Dir(dir), VersionFile)
}

func writeVersion(dir string) error {
	return os.WriteFile(versionPath(dir), []byte(strconv.Itoa(IndexSchemaVersion)), 0644)
}

// readVersion returns 0 when no version file exists
func readVersion(dir string) int {
	data, err := os.ReadFile(versionPath(dir))
	if err != nil {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return v
}
