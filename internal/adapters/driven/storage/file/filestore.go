// Package file implements artifact storage on the local filesystem with
// atomic writes.
package file

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.FileStore = (*Store)(nil)

// Store writes and reads pipeline artifacts on the local filesystem.
type Store struct{}

// NewStore creates a Store.
func NewStore() *Store {
	return &Store{}
}

// WriteAtomic writes data via a temporary file in the target directory
// followed by a rename. An interrupted write leaves at most a *.tmp
// file, never a truncated artifact under the final name.
func (s *Store) WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// ReadFile reads the file at path.
func (s *Store) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ListXML returns the .xml files directly under dir, sorted by name.
func (s *Store) ListXML(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".xml") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Exists reports whether path exists.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
