package snapshot

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ChicagoDave/realmmap/pkg/access"
	"github.com/ChicagoDave/realmmap/pkg/geo"
	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/store"
	"github.com/pixil98/go-testutil"
)

func sampleMap() *realm.Map {
	density := 0.25
	params := realm.DefaultParams()
	params.Width, params.Height = 100, 100
	params.Forest.Overrides = map[string]realm.ForestOverride{
		"prov_001": {Density: &density},
	}
	return &realm.Map{
		ID:   "3f1c7a52-0d0e-5b8e-9a53-5d3c2b0e7a11",
		Seed: -7,
		Area: realm.Area{Width: 100, Height: 100},
		Provinces: []realm.Province{
			{ID: "prov_000", Boundary: geo.Rect(0, 0, 50, 100), Seed: geo.Pt(25, 50), Neighbors: []string{"prov_001"}, Area: 5000, Owner: "lord_anselm"},
			{ID: "prov_001", Boundary: geo.Rect(50, 0, 50, 100), Seed: geo.Pt(75.125, 50.0000001), Neighbors: []string{"prov_000"}, Area: 5000},
		},
		Locations: []realm.Location{
			{ID: "loc_0000", Name: "Ashford", Position: geo.Pt(25.1, 49.9), Kind: realm.KindCastle, ProvinceID: "prov_000", Owner: "lord_anselm", Population: 340, Soldiers: 80},
			{ID: "loc_0001", Position: geo.Pt(1.0/3.0, 2.0/3.0), Kind: realm.KindLandmark, ProvinceID: "prov_000"},
		},
		Roads: []realm.Road{
			{ID: "road_0000", From: "loc_0000", To: "loc_0001", Waypoints: []geo.Point2D{geo.Pt(25.1, 49.9), geo.Pt(1.0/3.0, 2.0/3.0)}, Class: realm.RoadPath, Length: 54.87},
		},
		Forests: []realm.ForestRegion{
			{ID: "forest_0000", ProvinceID: "prov_001", Points: []geo.Point2D{geo.Pt(80, 80), geo.Pt(90.5, 70.25)}, Density: 0.25},
			{ID: "forest_0001", ProvinceID: "prov_000", Points: []geo.Point2D{}, Density: 0.6},
		},
		Params: params,
	}
}

func TestRoundTrip(t *testing.T) {
	m := sampleMap()
	data, err := Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, m)
	}
}

func TestRoundTripEmptyMap(t *testing.T) {
	m := &realm.Map{ID: "empty", Area: realm.Area{Width: 10, Height: 10}}
	data, err := Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, m)
	}
}

func TestEncodeWritesVersion(t *testing.T) {
	data, err := Encode(sampleMap())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(string(data), `{"schema_version":1,`) {
		t.Errorf("document should open with schema_version, got %.40s", data)
	}
}

func TestEncodeNil(t *testing.T) {
	_, err := Encode(nil)
	testutil.AssertErrorContains(t, err, "nil map")
}

func TestDecodeRejectsVersion(t *testing.T) {
	_, err := Decode([]byte(`{"schema_version":2,"id":"x"}`))
	var verr *VersionError
	if !errors.As(err, &verr) {
		t.Fatalf("expected VersionError, got %v", err)
	}
	testutil.AssertEqual(t, "version", verr.Got, 2)
}

func TestDecodeMissingVersion(t *testing.T) {
	_, err := Decode([]byte(`{"id":"x"}`))
	testutil.AssertErrorContains(t, err, "unsupported schema_version 0")
}

func TestDecodeCorrupt(t *testing.T) {
	_, err := Decode([]byte(`{"schema_version":`))
	testutil.AssertErrorContains(t, err, "reading header")
}

func TestSaveLoadThroughStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	hash, err := access.HashSecret("pw")
	if err != nil {
		t.Fatal(err)
	}
	tok, err := access.Grant("test", hash, "pw")
	if err != nil {
		t.Fatal(err)
	}

	if _, found, err := Load(ctx, s); err != nil || found {
		t.Fatalf("empty store: found=%v err=%v", found, err)
	}

	m := sampleMap()
	if err := Save(ctx, s, m, access.ReadOnly()); !errors.Is(err, store.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if err := Save(ctx, s, m, tok); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, found, err := Load(ctx, s)
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("stored map differs from saved map")
	}
}

func TestLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	hash, _ := access.HashSecret("pw")
	tok, _ := access.Grant("test", hash, "pw")
	if err := s.Save(ctx, Key, []byte("not json"), tok); err != nil {
		t.Fatal(err)
	}
	_, _, err := Load(ctx, s)
	var perr *store.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	testutil.AssertEqual(t, "op", perr.Op, "decode")
}

func TestLoadRejectsDanglingReferences(t *testing.T) {
	tests := map[string]func(m *realm.Map){
		"road to missing location":   func(m *realm.Map) { m.Roads[0].To = "loc_9999" },
		"forest in missing province": func(m *realm.Map) { m.Forests[0].ProvinceID = "prov_042" },
	}
	for name, corrupt := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := store.NewMemoryStore()
			hash, _ := access.HashSecret("pw")
			tok, _ := access.Grant("test", hash, "pw")

			m := sampleMap()
			corrupt(m)
			if err := Save(ctx, s, m, tok); err != nil {
				t.Fatalf("save: %v", err)
			}

			got, found, err := Load(ctx, s)
			if got != nil || !found {
				t.Errorf("expected no map and found=true, got map=%v found=%v", got != nil, found)
			}
			var perr *store.PersistenceError
			if !errors.As(err, &perr) {
				t.Fatalf("expected PersistenceError, got %v", err)
			}
			testutil.AssertEqual(t, "op", perr.Op, "validate")
			var ierr *realm.IntegrityError
			if !errors.As(err, &ierr) {
				t.Errorf("expected the integrity error to be wrapped, got %v", err)
			}
		})
	}
}
