package roads

import (
	"fmt"
	"math"
	"testing"

	"github.com/ChicagoDave/realmmap/pkg/geo"
	"github.com/ChicagoDave/realmmap/pkg/placement"
	"github.com/ChicagoDave/realmmap/pkg/province"
	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/validation"
	"github.com/pixil98/go-testutil"
)

func loc(id, prov string, x, y float64, kind realm.Kind) realm.Location {
	return realm.Location{ID: id, ProvinceID: prov, Position: geo.Pt(x, y), Kind: kind}
}

// tenLocations places ten locations on a 1000x1000 map with min distance 50.
func tenLocations(t *testing.T) []realm.Location {
	t.Helper()
	provinces, _, err := province.Generate(realm.Area{Width: 1000, Height: 1000}, 5, 42, province.OptionsFromParams(realm.DefaultParams()))
	if err != nil {
		t.Fatalf("province.Generate: %v", err)
	}
	locs, report := placement.Place(provinces, placement.Options{Total: 10, MinDistance: 50, MaxAttempts: 200}, 42)
	if len(locs) != 10 {
		t.Fatalf("expected 10 locations, got %d (%s)", len(locs), report.Summary)
	}
	return locs
}

func TestBuildTenLocationsNineRoads(t *testing.T) {
	locs := tenLocations(t)
	roads, report := Build(locs, Options{CrossingPenalty: 1.5})

	if !report.Valid {
		t.Fatalf("report has errors: %s", report.Summary)
	}
	testutil.AssertEqual(t, "roads", len(roads), 9)
	testutil.AssertEqual(t, "components", Components(locs, roads), 1)

	byID := make(map[string]realm.Location)
	for _, l := range locs {
		byID[l.ID] = l
	}
	for _, r := range roads {
		from, okFrom := byID[r.From]
		to, okTo := byID[r.To]
		if !okFrom || !okTo {
			t.Fatalf("road %s references unknown location", r.ID)
		}
		if len(r.Waypoints) != 2 || r.Waypoints[0] != from.Position || r.Waypoints[1] != to.Position {
			t.Errorf("road %s waypoints do not match endpoints", r.ID)
		}
		if math.Abs(r.Length-from.Position.Distance(to.Position)) > 1e-9 {
			t.Errorf("road %s length %f is not the endpoint distance", r.ID, r.Length)
		}
	}
}

func TestBuildEmptyAndSingle(t *testing.T) {
	roads, report := Build(nil, Options{CrossingPenalty: 1.5})
	testutil.AssertEqual(t, "roads", len(roads), 0)
	if !report.Valid {
		t.Error("no locations is not an error")
	}
	testutil.AssertEqual(t, "empty network info", len(report.WithCode(validation.CodeEmptyNetwork)), 1)

	roads, _ = Build([]realm.Location{loc("loc_0000", "p", 1, 1, realm.KindTown)}, Options{})
	testutil.AssertEqual(t, "roads", len(roads), 0)
}

func TestBuildIsDeterministicUnderReordering(t *testing.T) {
	locs := tenLocations(t)
	a, _ := Build(locs, Options{CrossingPenalty: 1.5})

	reversed := make([]realm.Location, len(locs))
	for i, l := range locs {
		reversed[len(locs)-1-i] = l
	}
	b, _ := Build(reversed, Options{CrossingPenalty: 1.5})

	testutil.AssertEqual(t, "count", len(a), len(b))
	for i := range a {
		if a[i].From != b[i].From || a[i].To != b[i].To {
			t.Errorf("road %d differs: %s-%s vs %s-%s", i, a[i].From, a[i].To, b[i].From, b[i].To)
		}
	}
}

func TestBuildTieBreakByIDPair(t *testing.T) {
	// Unit square: four sides of equal length, both diagonals longer.
	locs := []realm.Location{
		loc("loc_d", "p", 0, 1, realm.KindVillage),
		loc("loc_c", "p", 1, 1, realm.KindVillage),
		loc("loc_b", "p", 1, 0, realm.KindVillage),
		loc("loc_a", "p", 0, 0, realm.KindVillage),
	}
	roads, _ := Build(locs, Options{CrossingPenalty: 1})
	got := make([]string, len(roads))
	for i, r := range roads {
		got[i] = r.From + "-" + r.To
	}
	// Sides sorted by id pair: a-b, a-d, b-c, c-d; the first three span.
	want := []string{"loc_a-loc_b", "loc_a-loc_d", "loc_b-loc_c"}
	testutil.AssertEqual(t, "roads", fmt.Sprint(got), fmt.Sprint(want))
}

func TestBuildCrossingPenaltyChangesTree(t *testing.T) {
	locs := []realm.Location{
		loc("loc_a", "prov_1", 0, 0, realm.KindVillage),
		loc("loc_b", "prov_2", 10, 0, realm.KindVillage),
		loc("loc_c", "prov_2", 5, 9, realm.KindVillage),
	}
	pairs := func(roads []realm.Road) string {
		var s []string
		for _, r := range roads {
			s = append(s, r.From+"-"+r.To)
		}
		return fmt.Sprint(s)
	}

	flat, _ := Build(locs, Options{CrossingPenalty: 1})
	testutil.AssertEqual(t, "no penalty", pairs(flat), "[loc_a-loc_b loc_a-loc_c]")

	penalised, _ := Build(locs, Options{CrossingPenalty: 1.5})
	testutil.AssertEqual(t, "with penalty", pairs(penalised), "[loc_b-loc_c loc_a-loc_b]")
}

func TestBuildClassifiesTradeRoutes(t *testing.T) {
	locs := []realm.Location{
		loc("loc_0", "p", 0, 0, realm.KindTown),
		loc("loc_1", "p", 100, 0, realm.KindCity),
		loc("loc_2", "p", 100, 60, realm.KindVillage),
	}
	roads, _ := Build(locs, Options{CrossingPenalty: 1})
	testutil.AssertEqual(t, "roads", len(roads), 2)
	classes := make(map[string]realm.RoadClass)
	for _, r := range roads {
		classes[r.From+"-"+r.To] = r.Class
	}
	testutil.AssertEqual(t, "town-city", classes["loc_0-loc_1"], realm.RoadTradeRoute)
	testutil.AssertEqual(t, "city-village", classes["loc_1-loc_2"], realm.RoadPath)
}

func TestConnectivitySymmetric(t *testing.T) {
	locs := tenLocations(t)
	roads, _ := Build(locs, Options{CrossingPenalty: 1.5})
	conn := Connectivity(roads)

	testutil.AssertEqual(t, "connected locations", len(conn), 10)
	for id, neighbors := range conn {
		for _, n := range neighbors {
			found := false
			for _, back := range conn[n] {
				if back == id {
					found = true
				}
			}
			if !found {
				t.Errorf("%s -> %s is not symmetric", id, n)
			}
		}
	}
}

func TestComponentsWithoutRoads(t *testing.T) {
	locs := []realm.Location{
		loc("a", "p", 0, 0, realm.KindTown),
		loc("b", "p", 5, 0, realm.KindTown),
	}
	testutil.AssertEqual(t, "components", Components(locs, nil), 2)
}
