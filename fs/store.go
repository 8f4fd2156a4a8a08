// Package fs implements object storage on the local filesystem. Keys map
// to paths under a base directory, with forward slashes translated to the
// platform separator.
package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ddobak/lawharvest"
)

var _ lawharvest.ObjectStore = (*Store)(nil)

// Store persists objects as files under Dir, creating intermediate
// directories as needed.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Put writes data to the file for key, replacing any existing content.
func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return lawharvest.Errorf(lawharvest.EINTERNAL, "create directory for %q: %s", key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return lawharvest.Errorf(lawharvest.EINTERNAL, "write %q: %s", key, err)
	}
	return nil
}

// Get reads the object stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, lawharvest.Errorf(lawharvest.ENOTFOUND, "object %q does not exist", key)
		}
		return nil, lawharvest.Errorf(lawharvest.EINTERNAL, "read %q: %s", key, err)
	}
	return data, nil
}

// Exists reports whether an object is stored under key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, lawharvest.Errorf(lawharvest.EINTERNAL, "stat %q: %s", key, err)
	}
	return true, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(key))
}
