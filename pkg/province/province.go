// Package province partitions the map area into provinces using a Voronoi
// tessellation of seeded points.
package province

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/ChicagoDave/realmmap/pkg/geo"
	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/validation"
)

// seedStream is the random stream province seeds are drawn from.
const seedStream = 1

// seedInset keeps seed points away from the area edge so border cells are
// not slivers.
const seedInset = 0.05

// Options tune degenerate-input recovery.
type Options struct {
	MaxRetries    int     // jitter attempts after the first partition fails
	JitterEpsilon float64 // maximum seed displacement per retry, in map units
}

// OptionsFromParams extracts the province options from map parameters.
func OptionsFromParams(p realm.Params) Options {
	return Options{MaxRetries: p.MaxRetries, JitterEpsilon: p.JitterEpsilon}
}

// Generate partitions area into count provinces. Seed points come from a
// PCG stream keyed by seed; each province is the Voronoi cell of its seed
// clipped to the area. A degenerate partition is retried with jittered seeds
// up to opts.MaxRetries times before failing.
func Generate(area realm.Area, count int, seed int64, opts Options) ([]realm.Province, *validation.Report, error) {
	if area.Width <= 0 || area.Height <= 0 {
		return nil, validation.NewReport(), fmt.Errorf("generating provinces: invalid area %.1fx%.1f", area.Width, area.Height)
	}
	if count < 1 {
		return nil, validation.NewReport(), fmt.Errorf("generating provinces: count %d must be at least 1", count)
	}

	rng := geo.NewRand(seed, seedStream)
	seeds := make([]geo.Point2D, count)
	for i := range seeds {
		seeds[i] = geo.RandomPointIn(rng,
			geo.Pt(area.Width*seedInset, area.Height*seedInset),
			geo.Pt(area.Width*(1-seedInset), area.Height*(1-seedInset)))
	}
	return generateFromSeeds(area, seeds, rng, opts)
}

func generateFromSeeds(area realm.Area, seeds []geo.Point2D, rng *rand.Rand, opts Options) ([]realm.Province, *validation.Report, error) {
	report := validation.NewReport()

	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		provinces, err := partition(area, seeds)
		if err == nil {
			report.AddInfo(validation.Result{
				Level:   validation.LevelGeometry,
				Message: fmt.Sprintf("partitioned %.0fx%.0f area into %d provinces", area.Width, area.Height, len(provinces)),
			})
			return provinces, report, nil
		}

		var gerr *geo.GeometryError
		if !errors.As(err, &gerr) {
			return nil, report, err
		}
		lastErr = err
		if attempt == opts.MaxRetries {
			break
		}
		report.AddWarning(validation.Result{
			Level:   validation.LevelGeometry,
			Code:    validation.CodeGeometryRetry,
			Message: fmt.Sprintf("partition attempt %d failed (%v); retrying with jittered seeds", attempt+1, err),
		})
		seeds = jitter(rng, seeds, area, opts.JitterEpsilon)
	}

	report.AddError(validation.Result{
		Level:   validation.LevelGeometry,
		Message: fmt.Sprintf("province partition failed after %d retries: %v", opts.MaxRetries, lastErr),
	})
	return nil, report, fmt.Errorf("generating provinces after %d retries: %w", opts.MaxRetries, lastErr)
}

// partition builds one province per seed. It fails with a GeometryError when
// the seeds are degenerate or the resulting cells do not tile the area.
func partition(area realm.Area, seeds []geo.Point2D) ([]realm.Province, error) {
	bounds := area.Polygon()
	if len(seeds) == 1 {
		return []realm.Province{{
			ID:       provinceID(0),
			Boundary: bounds,
			Seed:     seeds[0],
			Area:     bounds.Area(),
		}}, nil
	}

	if distinct := countDistinct(seeds); distinct < 2 {
		return nil, &geo.GeometryError{Op: "partition", Reason: "fewer than 2 distinct seed points"}
	} else if distinct < len(seeds) {
		return nil, &geo.GeometryError{Op: "partition", Reason: fmt.Sprintf("%d coincident seed points", len(seeds)-distinct)}
	}

	cells := geo.Voronoi(seeds, bounds)
	provinces := make([]realm.Province, len(cells))
	total := 0.0
	for i, cell := range cells {
		if err := cell.Polygon.Validate(); err != nil {
			return nil, &geo.GeometryError{Op: "partition", Reason: fmt.Sprintf("cell %d: %v", i, err)}
		}
		var neighbors []string
		for _, n := range cell.Neighbors {
			neighbors = append(neighbors, provinceID(n))
		}
		provinces[i] = realm.Province{
			ID:        provinceID(i),
			Boundary:  cell.Polygon,
			Seed:      cell.Seed,
			Neighbors: neighbors,
			Area:      cell.Polygon.Area(),
		}
		total += provinces[i].Area
	}

	if math.Abs(total-area.Size()) > realm.Tolerance*area.Size() {
		return nil, &geo.GeometryError{Op: "partition", Reason: fmt.Sprintf("cells cover %.6f of %.6f", total, area.Size())}
	}
	return provinces, nil
}

func provinceID(i int) string {
	return fmt.Sprintf("prov_%03d", i)
}

func countDistinct(pts []geo.Point2D) int {
	seen := make(map[geo.Point2D]bool, len(pts))
	for _, p := range pts {
		seen[p] = true
	}
	return len(seen)
}

// jitter displaces every seed by up to eps on each axis, keeping it inside
// the area.
func jitter(rng *rand.Rand, seeds []geo.Point2D, area realm.Area, eps float64) []geo.Point2D {
	out := make([]geo.Point2D, len(seeds))
	for i, s := range seeds {
		p := geo.Pt(
			s.X+eps*(2*rng.Float64()-1),
			s.Y+eps*(2*rng.Float64()-1),
		)
		p.X = math.Min(math.Max(p.X, 0), area.Width)
		p.Y = math.Min(math.Max(p.Y, 0), area.Height)
		out[i] = p
	}
	return out
}
