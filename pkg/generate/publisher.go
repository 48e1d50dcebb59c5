package generate

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ChicagoDave/realmmap/pkg/metrics"
	"github.com/ChicagoDave/realmmap/pkg/realm"
)

// Publisher holds the current map. Readers always see a complete map; a
// failed regeneration leaves the previous one in place.
type Publisher struct {
	current atomic.Pointer[realm.Map]
	mu      sync.Mutex // serializes Regenerate
}

// NewPublisher starts with m, which may be nil.
func NewPublisher(m *realm.Map) *Publisher {
	p := &Publisher{}
	if m != nil {
		p.Publish(m)
	}
	return p
}

// Current returns the published map or nil.
func (p *Publisher) Current() *realm.Map {
	return p.current.Load()
}

// Publish replaces the current map.
func (p *Publisher) Publish(m *realm.Map) {
	p.current.Store(m)
	metrics.SetEntities(len(m.Provinces), len(m.Locations), len(m.Roads), m.ForestPoints())
}

// Finisher transforms a freshly generated map before it is published, for
// example to apply lord ownership.
type Finisher func(*realm.Map) (*realm.Map, error)

// Regenerate runs a generation, applies finish when it is not nil and
// publishes the result on success. Generation, finishing and publication
// happen under one lock, so the published map is always the last one to
// complete and is never seen unfinished.
func (p *Publisher) Regenerate(ctx context.Context, params realm.Params, finish Finisher) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	res, err := Run(ctx, params)
	if err != nil {
		return nil, err
	}
	if finish != nil {
		m, err := finish(res.Map)
		if err != nil {
			return nil, fmt.Errorf("finishing map: %w", err)
		}
		res.Map = m
	}
	p.Publish(res.Map)
	return res, nil
}
