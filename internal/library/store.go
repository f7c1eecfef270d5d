package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".clientgen.lock"

// ErrStoreLocked means another process holds the store lock.
var ErrStoreLocked = errors.New("library store is locked by another process")

// Store is the on-disk artifact cache, laid out like a maven repository.
type Store struct {
	root string
	lock *flock.Flock
}

// NewStore returns a Store rooted at root. The directory is created lazily.
func NewStore(root string) *Store {
	return &Store{
		root: root,
		lock: flock.New(filepath.Join(root, lockFileName)),
	}
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Lock takes an exclusive advisory lock on the store for this process.
func (s *Store) Lock() error {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return fmt.Errorf("creating library store %s: %w", s.root, err)
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("locking library store: %w", err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", s.root, ErrStoreLocked)
	}
	return nil
}

// Unlock releases the store lock.
func (s *Store) Unlock() error {
	return s.lock.Unlock()
}

// Exists reports whether a regular file is stored at the relative path.
func (s *Store) Exists(rel string) bool {
	info, err := os.Stat(s.abs(rel))
	return err == nil && info.Mode().IsRegular()
}

// Read returns the bytes stored at the relative path.
func (s *Store) Read(rel string) ([]byte, error) {
	data, err := os.ReadFile(s.abs(rel))
	if err != nil {
		return nil, fmt.Errorf("reading cached %s: %w", rel, err)
	}
	return data, nil
}

// Write stores data at the relative path, creating parent directories. The
// bytes go to a temp file first so an interrupted run never leaves a
// truncated jar that a later run would treat as a cache hit.
func (s *Store) Write(rel string, data []byte) error {
	dst := s.abs(rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".download-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", rel, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", rel, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("finalizing %s: %w", rel, err)
	}
	return nil
}

func (s *Store) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}
