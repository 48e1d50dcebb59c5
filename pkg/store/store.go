// Package store persists map snapshots as opaque blobs under string keys.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ChicagoDave/realmmap/pkg/access"
)

// ErrAccessDenied is returned by Save when the token cannot write.
var ErrAccessDenied = errors.New("store: write access denied")

// PersistenceError reports a store that could not be read or written.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store loads and saves blobs. Load reports found=false for a missing key.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte, token access.Token) error
	Close() error
}

// Drivers accepted by Open.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Drivers lists every supported driver name.
func Drivers() []string {
	return []string{DriverFile, DriverSQLite, DriverPostgres, DriverRedis, DriverMemory}
}

// Config selects a backend. DSN is a directory for file, a database path
// for sqlite, a connection string for postgres and an address or
// redis:// URL for redis.
type Config struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Open returns the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverFile, "":
		s, err := NewFileStore(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverSQLite:
		s, err := OpenSQLite(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverRedis:
		s, err := OpenRedis(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// checkWrite is shared by every Save.
func checkWrite(ctx context.Context, key string, token access.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !token.CanWrite() {
		return fmt.Errorf("saving %q as %s: %w", key, token.Subject(), ErrAccessDenied)
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("store key is required")
	}
	return nil
}
