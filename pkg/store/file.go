package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ChicagoDave/realmmap/pkg/access"
)

// FileStore keeps each key as a JSON file under a directory. Slashes in keys
// become nested directories.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &PersistenceError{Op: "open", Key: dir, Err: err}
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.filePath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &PersistenceError{Op: "load", Key: key, Err: err}
	}
	return data, true, nil
}

func (s *FileStore) Save(ctx context.Context, key string, data []byte, token access.Token) error {
	if err := checkWrite(ctx, key, token); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.filePath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &PersistenceError{Op: "save", Key: key, Err: err}
	}
	if err := atomicWrite(path, data, 0o644); err != nil {
		return &PersistenceError{Op: "save", Key: key, Err: err}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) filePath(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key)+".json")
}

// atomicWrite writes data to a temp file then renames it over path, so a
// reader never sees a partial snapshot.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			slog.Warn("failed to remove temp file after rename failure", "path", tmp, "error", removeErr)
		}
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
