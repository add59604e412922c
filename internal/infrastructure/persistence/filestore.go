// Package persistence provides file-based storage implementations.
package persistence

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/altuslabsxyz/revwallet/internal/application/ports"
)

// FileStore implements ports.Store with one file per key under a data
// directory. Writes go through a temp file and rename so a crash never
// leaves a half-written value behind.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &WriteError{Path: dir, Message: err.Error()}
	}
	return &FileStore{dir: dir}, nil
}

// Get returns the value stored for key, with ok=false when absent.
func (s *FileStore) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, &ReadError{Path: s.path(key), Message: err.Error()}
	}
	return string(data), true, nil
}

// Set stores value under key, replacing any previous value.
func (s *FileStore) Set(key, value string) error {
	path := s.path(key)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return &WriteError{Path: path, Message: err.Error()}
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &WriteError{Path: path, Message: err.Error()}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Message: err.Error()}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &WriteError{Path: path, Message: err.Error()}
	}
	return nil
}

// Remove deletes the value stored for key. Removing an absent key is a
// no-op.
func (s *FileStore) Remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return &WriteError{Path: s.path(key), Message: err.Error()}
	}
	return nil
}

// path maps a key onto a filename, replacing separators so callers cannot
// escape the data directory.
func (s *FileStore) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(s.dir, safe+".json")
}

// Ensure FileStore implements ports.Store.
var _ ports.Store = (*FileStore)(nil)
