package tools

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"testing/fstest"
)

// MockDataProvider implements DataProvider for testing.
// It keeps search files in memory so tests can serve any table as the
// embedded fallback.
type MockDataProvider struct {
	files fstest.MapFS
}

// NewMockDataProvider creates a new mock data provider for testing.
func NewMockDataProvider() *MockDataProvider {
	return &MockDataProvider{
		files: make(fstest.MapFS),
	}
}

// AddFile adds a file to the mock provider. Parent directories appear
// implicitly.
func (m *MockDataProvider) AddFile(name string, content []byte) {
	m.files[name] = &fstest.MapFile{Data: content, Mode: 0644}
}

// ReadFile reads a file from the mock storage.
func (m *MockDataProvider) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(m.files, name)
}

// ReadDir lists the files and subdirectories directly under name.
func (m *MockDataProvider) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(m.files, name)
}

// AddSearchDir copies every file of a Doxygen search directory on disk into
// the mock under the embedded search root.
func (m *MockDataProvider) AddSearchDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		m.AddFile(path.Join(embeddedSearchDir, e.Name()), data)
	}
	return nil
}
