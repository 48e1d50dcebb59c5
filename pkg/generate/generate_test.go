package generate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/validation"
)

func TestRunDefaultScenario(t *testing.T) {
	p := realm.DefaultParams()
	res, err := Run(context.Background(), p)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	m := res.Map
	testutil.AssertEqual(t, "provinces", len(m.Provinces), 5)
	testutil.AssertEqual(t, "seed", m.Seed, int64(42))
	if len(m.Locations) == 0 {
		t.Fatal("expected locations")
	}
	testutil.AssertEqual(t, "roads", len(m.Roads), len(m.Locations)-1)
	if err := m.Validate(); err != nil {
		t.Errorf("published map fails integrity: %v", err)
	}
	if !res.Report.Valid {
		t.Errorf("report should be valid: %s", res.Report.Summary)
	}
}

func TestRunDeterministic(t *testing.T) {
	p := realm.DefaultParams()
	p.Seed = 7
	a, err := Run(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Map, b.Map) {
		t.Error("same params produced different maps")
	}

	p.Seed = 8
	c, err := Run(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if c.Map.ID == a.Map.ID {
		t.Error("different seeds should produce different map IDs")
	}
}

func TestRunNoLocations(t *testing.T) {
	p := realm.DefaultParams()
	p.LocationsPerProvince = 0
	res, err := Run(context.Background(), p)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	testutil.AssertEqual(t, "locations", len(res.Map.Locations), 0)
	testutil.AssertEqual(t, "roads", len(res.Map.Roads), 0)
	testutil.AssertEqual(t, "empty network info", len(res.Report.WithCode(validation.CodeEmptyNetwork)), 1)
}

func TestRunInvalidParams(t *testing.T) {
	p := realm.DefaultParams()
	p.Width = -1
	res, err := Run(context.Background(), p)
	if res != nil {
		t.Error("invalid params should produce no result")
	}
	var perr *ParamsError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParamsError, got %v", err)
	}
	testutil.AssertErrorContains(t, err, "width")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, realm.DefaultParams())
	if res != nil {
		t.Error("cancelled run should produce no result")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMapID(t *testing.T) {
	a, err := MapID(realm.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := MapID(realm.DefaultParams())
	testutil.AssertEqual(t, "stable", a, b)
	testutil.AssertEqual(t, "uuid length", len(a), 36)
}

func TestPublisher(t *testing.T) {
	p := NewPublisher(nil)
	if p.Current() != nil {
		t.Fatal("new publisher should be empty")
	}

	res, err := p.Regenerate(context.Background(), realm.DefaultParams(), nil)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if p.Current() != res.Map {
		t.Error("successful regeneration should publish its map")
	}

	bad := realm.DefaultParams()
	bad.Provinces = 0
	if _, err := p.Regenerate(context.Background(), bad, nil); err == nil {
		t.Fatal("expected error for zero provinces")
	}
	if p.Current() != res.Map {
		t.Error("failed regeneration must keep the previous map")
	}
}

func ownFirstLocation(lord string) Finisher {
	return func(m *realm.Map) (*realm.Map, error) {
		if len(m.Locations) == 0 {
			return m, nil
		}
		return m.WithLocationOwner(m.Locations[0].ID, lord)
	}
}

func TestPublisherFinisher(t *testing.T) {
	p := NewPublisher(nil)
	res, err := p.Regenerate(context.Background(), realm.DefaultParams(), ownFirstLocation("firenze"))
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	cur := p.Current()
	if cur != res.Map {
		t.Fatal("the finished map should be published")
	}
	testutil.AssertEqual(t, "owner", cur.Locations[0].Owner, "firenze")

	failing := func(*realm.Map) (*realm.Map, error) { return nil, errors.New("roster broken") }
	next := realm.DefaultParams()
	next.Seed++
	_, err = p.Regenerate(context.Background(), next, failing)
	testutil.AssertErrorContains(t, err, "roster broken")
	if p.Current() != cur {
		t.Error("a failed finish must keep the previous map")
	}
}

func TestPublisherConcurrentRegenerate(t *testing.T) {
	p := NewPublisher(nil)

	var (
		orderMu sync.Mutex
		last    *realm.Map
	)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			params := realm.DefaultParams()
			params.Width, params.Height = 400, 400
			params.Provinces = 3
			params.LocationsPerProvince = 2
			params.Seed = int64(100 + i)
			lord := fmt.Sprintf("lord_%d", i)
			finish := func(m *realm.Map) (*realm.Map, error) {
				out, err := ownFirstLocation(lord)(m)
				if err != nil {
					return nil, err
				}
				orderMu.Lock()
				last = out
				orderMu.Unlock()
				return out, nil
			}
			if _, err := p.Regenerate(context.Background(), params, finish); err != nil {
				t.Errorf("regenerate seed %d: %v", params.Seed, err)
			}
		}(i)
	}
	wg.Wait()

	cur := p.Current()
	if cur == nil || cur != last {
		t.Fatal("the last completed map should be the published one")
	}
	if cur.Locations[0].Owner == "" {
		t.Error("published map should carry its owner")
	}
}
