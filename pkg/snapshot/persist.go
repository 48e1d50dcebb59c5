package snapshot

import (
	"context"
	"fmt"

	"github.com/ChicagoDave/realmmap/pkg/access"
	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/store"
)

// Save encodes m and writes it under Key.
func Save(ctx context.Context, s store.Store, m *realm.Map, token access.Token) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := s.Save(ctx, Key, data, token); err != nil {
		return fmt.Errorf("saving map %s: %w", m.ID, err)
	}
	return nil
}

// Load reads the map stored under Key. A stored document that cannot be
// decoded, or that decodes to a map failing its integrity check, is
// reported as a *store.PersistenceError.
func Load(ctx context.Context, s store.Store) (*realm.Map, bool, error) {
	data, found, err := s.Load(ctx, Key)
	if err != nil || !found {
		return nil, found, err
	}
	m, err := Decode(data)
	if err != nil {
		return nil, true, &store.PersistenceError{Op: "decode", Key: Key, Err: err}
	}
	if err := m.Validate(); err != nil {
		return nil, true, &store.PersistenceError{Op: "validate", Key: Key, Err: err}
	}
	return m, true, nil
}
