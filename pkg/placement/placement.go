// Package placement scatters locations over provinces with a minimum spacing.
package placement

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/ChicagoDave/realmmap/pkg/geo"
	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/validation"
)

// placementStream is the random stream placements are drawn from.
const placementStream = 2

// Options control how many locations are placed and how far apart.
type Options struct {
	PerProvince int     // target per province
	Total       int     // when > 0, split across provinces by area instead
	MinDistance float64 // minimum distance between any two locations
	MaxAttempts int     // candidates sampled per slot before giving up
}

// OptionsFromParams extracts the placement options from map parameters.
func OptionsFromParams(p realm.Params) Options {
	return Options{
		PerProvince: p.LocationsPerProvince,
		Total:       p.TotalLocations,
		MinDistance: p.MinDistance,
		MaxAttempts: p.PlacementAttempts,
	}
}

// Place puts locations into provinces in province ID order. Each slot
// samples up to opts.MaxAttempts candidates in the province's bounding box
// and accepts the first one strictly inside the province and at least
// opts.MinDistance from every location placed so far, in any province. A
// province whose slot runs out of attempts keeps what it has and the
// shortfall is reported as a warning.
func Place(provinces []realm.Province, opts Options, seed int64) ([]realm.Location, *validation.Report) {
	report := validation.NewReport()
	rng := geo.NewRand(seed, placementStream)

	ordered := make([]realm.Province, len(provinces))
	copy(ordered, provinces)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	quotas := Quotas(ordered, opts)
	grid := geo.NewGrid(math.Max(opts.MinDistance, 1))
	names := newNamer()
	var locations []realm.Location

	for i, prov := range ordered {
		quota := quotas[i]
		lo, hi := prov.Boundary.BoundingBox()
		placed := 0

		for slot := 0; slot < quota; slot++ {
			pos, ok := sample(rng, prov.Boundary, lo, hi, grid, opts)
			if !ok {
				break
			}
			grid.Insert(pos)
			kind := drawKind(rng, placed == 0)
			locations = append(locations, newLocation(rng, names, len(locations), prov.ID, pos, kind))
			placed++
		}

		if placed < quota {
			report.AddWarning(validation.Result{
				Level:       validation.LevelPlacement,
				Code:        validation.CodePlacementExhausted,
				Message:     fmt.Sprintf("province %s: placed %d of %d locations before exhausting %d attempts", prov.ID, placed, quota, opts.MaxAttempts),
				Path:        prov.ID,
				ActualValue: placed,
				Expected:    fmt.Sprintf("%d", quota),
				Suggestions: []string{"Lower min_distance", "Raise placement_attempts"},
			})
		}
	}

	report.AddInfo(validation.Result{
		Level:   validation.LevelPlacement,
		Message: fmt.Sprintf("placed %d locations across %d provinces", len(locations), len(ordered)),
	})
	return locations, report
}

func sample(rng *rand.Rand, boundary geo.Polygon, lo, hi geo.Point2D, grid *geo.Grid, opts Options) (geo.Point2D, bool) {
	for a := 0; a < opts.MaxAttempts; a++ {
		c := geo.RandomPointIn(rng, lo, hi)
		// Boundary points are rejected so each location has exactly one province.
		if !boundary.Contains(c) || boundary.OnBoundary(c) {
			continue
		}
		if opts.MinDistance > 0 && grid.AnyWithin(c, opts.MinDistance) {
			continue
		}
		return c, true
	}
	return geo.Point2D{}, false
}

// Quotas returns the target location count of each province. With a total
// set, it is split in proportion to province area using largest remainders;
// ties go to the earlier province.
func Quotas(provinces []realm.Province, opts Options) []int {
	quotas := make([]int, len(provinces))
	if opts.Total <= 0 {
		for i := range quotas {
			quotas[i] = opts.PerProvince
		}
		return quotas
	}

	totalArea := 0.0
	for _, p := range provinces {
		totalArea += p.Area
	}
	if totalArea <= 0 {
		return quotas
	}

	type remainder struct {
		idx  int
		frac float64
	}
	rems := make([]remainder, len(provinces))
	assigned := 0
	for i, p := range provinces {
		exact := float64(opts.Total) * p.Area / totalArea
		quotas[i] = int(math.Floor(exact))
		assigned += quotas[i]
		rems[i] = remainder{idx: i, frac: exact - float64(quotas[i])}
	}
	sort.SliceStable(rems, func(i, j int) bool { return rems[i].frac > rems[j].frac })
	for k := 0; assigned < opts.Total && k < len(rems); k++ {
		quotas[rems[k].idx]++
		assigned++
	}
	return quotas
}

func newLocation(rng *rand.Rand, names *namer, idx int, provinceID string, pos geo.Point2D, kind realm.Kind) realm.Location {
	tr := kind.Traits()
	return realm.Location{
		ID:         fmt.Sprintf("loc_%04d", idx),
		Name:       names.next(rng, kind),
		Position:   pos,
		Kind:       kind,
		ProvinceID: provinceID,
		Population: between(rng, tr.MinPopulation, tr.MaxPopulation),
		Soldiers:   between(rng, tr.MinSoldiers, tr.MaxSoldiers),
	}
}

func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// drawKind picks a kind by catalogue weight. The first location of a
// province is drawn from the seat kinds only.
func drawKind(rng *rand.Rand, seat bool) realm.Kind {
	pool := realm.Kinds()
	if seat {
		pool = realm.SeatKinds()
	}
	total := 0
	for _, k := range pool {
		total += k.Traits().Weight
	}
	n := rng.IntN(total)
	for _, k := range pool {
		n -= k.Traits().Weight
		if n < 0 {
			return k
		}
	}
	return pool[len(pool)-1]
}
