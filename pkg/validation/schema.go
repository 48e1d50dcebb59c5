package validation

import (
	"fmt"
	"sort"

	"github.com/ChicagoDave/realmmap/pkg/realm"
)

// ValidateSchema performs schema validation on generation parameters.
// It checks structural correctness before any generation runs.
func ValidateSchema(p realm.Params) *Report {
	r := NewReport()

	validateArea(p, r)
	validateProvinces(p, r)
	validatePlacement(p, r)
	validateRoads(p, r)
	validateForest(p.Forest, r)
	validateRetries(p, r)

	return r
}

func validateArea(p realm.Params, r *Report) {
	if p.Width <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "map width must be greater than 0",
			Path:        "map.width",
			ActualValue: p.Width,
			Expected:    "> 0",
		})
	}
	if p.Height <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "map height must be greater than 0",
			Path:        "map.height",
			ActualValue: p.Height,
			Expected:    "> 0",
		})
	}
}

func validateProvinces(p realm.Params, r *Report) {
	if p.Provinces < 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "province count must be at least 1",
			Path:        "map.provinces",
			ActualValue: p.Provinces,
			Expected:    ">= 1",
		})
	}
}

func validatePlacement(p realm.Params, r *Report) {
	if p.LocationsPerProvince < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "locations_per_province must be non-negative",
			Path:        "map.locations_per_province",
			ActualValue: p.LocationsPerProvince,
			Expected:    ">= 0",
		})
	}
	if p.TotalLocations < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "total_locations must be non-negative",
			Path:        "map.total_locations",
			ActualValue: p.TotalLocations,
			Expected:    ">= 0",
		})
	}
	if p.MinDistance < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "min_distance must be non-negative",
			Path:        "map.min_distance",
			ActualValue: p.MinDistance,
			Expected:    ">= 0",
		})
	}
	if p.PlacementAttempts < 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "placement_attempts must be at least 1",
			Path:        "map.placement_attempts",
			ActualValue: p.PlacementAttempts,
			Expected:    ">= 1",
		})
	}

	// Rough packing bound: discs of radius minDistance/2 cannot cover more
	// than the whole area.
	want := p.TotalLocations
	if want == 0 {
		want = p.LocationsPerProvince * p.Provinces
	}
	if p.MinDistance > 0 && p.Width > 0 && p.Height > 0 && want > 0 {
		capacity := int(p.Width * p.Height / (p.MinDistance * p.MinDistance * 0.866))
		if want > capacity {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%d locations at min_distance %.0f exceed the area's packing capacity (~%d); quotas will be reduced", want, p.MinDistance, capacity),
				Path:        "map.min_distance",
				ActualValue: want,
				Expected:    fmt.Sprintf("<= %d", capacity),
				Suggestions: []string{"Lower min_distance", "Request fewer locations", "Enlarge the map"},
			})
		}
	}
}

func validateRoads(p realm.Params, r *Report) {
	if p.CrossingPenalty < 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("crossing_penalty %.2f must be at least 1", p.CrossingPenalty),
			Path:        "map.crossing_penalty",
			ActualValue: p.CrossingPenalty,
			Expected:    ">= 1",
		})
	}
}

func validateForest(f realm.ForestParams, r *Report) {
	checkDensity(f.Density, "map.forest.density", r)
	if f.Buffer < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "forest buffer must be non-negative",
			Path:        "map.forest.buffer",
			ActualValue: f.Buffer,
			Expected:    ">= 0",
		})
	}
	if f.Spacing <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "forest spacing must be greater than 0",
			Path:        "map.forest.spacing",
			ActualValue: f.Spacing,
			Expected:    "> 0",
		})
	}
	if f.ClusterRadius < f.Spacing {
		r.AddWarning(Result{
			Level:        LevelSchema,
			Message:      fmt.Sprintf("cluster_radius %.1f is below spacing %.1f; every tree becomes its own forest", f.ClusterRadius, f.Spacing),
			Path:         "map.forest.cluster_radius",
			ActualValue:  f.ClusterRadius,
			ConflictWith: "map.forest.spacing",
		})
	}
	if f.MaxAttempts < 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "forest max_attempts must be at least 1",
			Path:        "map.forest.max_attempts",
			ActualValue: f.MaxAttempts,
			Expected:    ">= 1",
		})
	}

	ids := make([]string, 0, len(f.Overrides))
	for id := range f.Overrides {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		o := f.Overrides[id]
		if o.Density != nil {
			checkDensity(*o.Density, fmt.Sprintf("map.forest.overrides.%s.density", id), r)
		}
		if o.Buffer != nil && *o.Buffer < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("forest buffer override for %s must be non-negative", id),
				Path:        fmt.Sprintf("map.forest.overrides.%s.buffer", id),
				ActualValue: *o.Buffer,
				Expected:    ">= 0",
			})
		}
	}
}

func checkDensity(d float64, path string, r *Report) {
	if d <= 0 || d > 1 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("forest density %.2f is outside (0, 1]", d),
			Path:        path,
			ActualValue: d,
			Expected:    "0 < density <= 1",
		})
	}
}

func validateRetries(p realm.Params, r *Report) {
	if p.MaxRetries < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "max_retries must be non-negative",
			Path:        "map.max_retries",
			ActualValue: p.MaxRetries,
			Expected:    ">= 0",
		})
	}
	if p.JitterEpsilon <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "jitter_epsilon must be greater than 0",
			Path:        "map.jitter_epsilon",
			ActualValue: p.JitterEpsilon,
			Expected:    "> 0",
		})
	}
}
