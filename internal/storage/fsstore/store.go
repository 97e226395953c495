package fsstore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/aplr/pillarbox/internal/storage"
)

const (
	lockFileName = ".lock"
	fileSuffix   = ".entry"
)

var _ storage.Store = (*Store)(nil)

// Store persists each key as one file under {dir}/{queue}/. A flock on
// the queue directory rejects a second process opening the same
// location, since concurrent instances would corrupt each other's
// index.
type Store struct {
	dir  string
	lock *flock.Flock
}

// Open creates the queue directory if needed and acquires its lock.
func Open(dir, queue string) (*Store, error) {
	root := filepath.Join(dir, queue)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("fsstore: create %s: %w", root, err)
	}
	lock := flock.New(filepath.Join(root, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("fsstore: acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("fsstore: %s is in use by another process", root)
	}
	return &Store{dir: root, lock: lock}, nil
}

// Close releases the directory lock.
func (s *Store) Close() error {
	if s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

// path maps a key to its file. Keys are opaque strings, so the name is
// base64url-encoded to stay filesystem-safe.
func (s *Store) path(key string) string {
	name := base64.RawURLEncoding.EncodeToString([]byte(key))
	return filepath.Join(s.dir, name+fileSuffix)
}

// Get returns the value for key, or storage.ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Set durably writes value under key: the bytes land in a temp file
// which is fsynced and renamed over the final name, so readers never
// observe a torn entry.
func (s *Store) Set(key string, value []byte) error {
	tmp, err := os.CreateTemp(s.dir, "write-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
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
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return s.syncDir()
}

// Remove durably deletes key. Removing an absent key is a no-op.
func (s *Store) Remove(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.syncDir()
}

// Contains reports whether key has a value.
func (s *Store) Contains(key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RemoveAll deletes every entry file, leaving the directory and its
// lock in place.
func (s *Store) RemoveAll() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileSuffix {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return s.syncDir()
}

// syncDir flushes directory metadata so renames and unlinks survive a
// crash. Best-effort: some platforms cannot sync directories.
func (s *Store) syncDir() error {
	d, err := os.Open(s.dir)
	if err != nil {
		return err
	}
	defer d.Close()
	_ = d.Sync()
	return nil
}
