// Package forest scatters tree points over the land left free by locations
// and roads, and groups them into forest regions.
package forest

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/ChicagoDave/realmmap/pkg/geo"
	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/validation"
)

// thinningStream is the random stream density thinning is drawn from.
const thinningStream = 3

// Scatter fills each province with Poisson-disc samples spaced by
// params.Spacing, drops samples within the province's buffer of any
// location or road segment, keeps each remaining sample with probability
// equal to the province density, and clusters the survivors into regions of
// points linked within params.ClusterRadius.
func Scatter(
	provinces []realm.Province,
	locations []realm.Location,
	roads []realm.Road,
	params realm.ForestParams,
	seed int64,
) ([]realm.ForestRegion, *validation.Report) {
	report := validation.NewReport()
	rng := geo.NewRand(seed, thinningStream)

	ordered := make([]realm.Province, len(provinces))
	copy(ordered, provinces)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	obstacles := newObstacles(locations, roads)
	var regions []realm.ForestRegion
	sampled, excluded, thinned := 0, 0, 0

	for i, prov := range ordered {
		density := params.DensityFor(prov.ID)
		buffer := params.BufferFor(prov.ID)
		if density <= 0 {
			continue
		}
		if density > 1 {
			density = 1
		}

		var kept []geo.Point2D
		for p := range geo.PoissonDiscSample(prov.Boundary, params.Spacing, params.MaxAttempts, provinceSeed(seed, i)) {
			sampled++
			if obstacles.within(p, buffer) {
				excluded++
				continue
			}
			if !keep(rng, density) {
				thinned++
				continue
			}
			kept = append(kept, p)
		}

		for _, pts := range Cluster(kept, params.ClusterRadius) {
			regions = append(regions, realm.ForestRegion{
				ID:         fmt.Sprintf("forest_%04d", len(regions)),
				ProvinceID: prov.ID,
				Points:     pts,
				Density:    density,
			})
		}
	}

	report.AddInfo(validation.Result{
		Level: validation.LevelForest,
		Message: fmt.Sprintf("scattered %d forests from %d samples (%d in buffers, %d thinned)",
			len(regions), sampled, excluded, thinned),
	})
	return regions, report
}

func keep(rng *rand.Rand, density float64) bool {
	return density >= 1 || rng.Float64() < density
}

// provinceSeed derives an independent sampling seed for the i-th province.
func provinceSeed(seed int64, i int) int64 {
	return seed ^ int64(uint64(i+1)*0x9e3779b97f4a7c15>>1)
}

// obstacles answers buffer queries against locations and road segments.
type obstacles struct {
	locations *geo.Grid
	segments  [][2]geo.Point2D
}

func newObstacles(locations []realm.Location, roads []realm.Road) *obstacles {
	o := &obstacles{locations: geo.NewGrid(32)}
	for _, l := range locations {
		o.locations.Insert(l.Position)
	}
	for _, r := range roads {
		for k := 0; k+1 < len(r.Waypoints); k++ {
			o.segments = append(o.segments, [2]geo.Point2D{r.Waypoints[k], r.Waypoints[k+1]})
		}
		if len(r.Waypoints) == 1 {
			o.segments = append(o.segments, [2]geo.Point2D{r.Waypoints[0], r.Waypoints[0]})
		}
	}
	return o
}

// within reports whether p is closer than d to a location or a road. The
// segment distance never exceeds the distance to a waypoint, so clearing a
// segment also clears its vertices.
func (o *obstacles) within(p geo.Point2D, d float64) bool {
	if d <= 0 {
		return false
	}
	if o.locations.AnyWithin(p, d) {
		return true
	}
	for _, s := range o.segments {
		if geo.SegmentDistance(p, s[0], s[1]) < d {
			return true
		}
	}
	return false
}

// Cluster groups points into connected components where two points are
// linked when closer than radius. Components are returned in order of
// their first point; points keep their input order within a component.
func Cluster(points []geo.Point2D, radius float64) [][]geo.Point2D {
	if len(points) == 0 {
		return nil
	}
	parent := make([]int, len(points))
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	grid := geo.NewGrid(radius)
	for i, p := range points {
		for _, j := range grid.Within(p, radius) {
			ri, rj := find(i), find(j)
			if ri != rj {
				// Keep the lower index as root so component order is stable.
				if ri < rj {
					parent[rj] = ri
				} else {
					parent[ri] = rj
				}
			}
		}
		grid.Insert(p)
	}

	index := make(map[int]int)
	var clusters [][]geo.Point2D
	for i, p := range points {
		root := find(i)
		k, ok := index[root]
		if !ok {
			k = len(clusters)
			index[root] = k
			clusters = append(clusters, nil)
		}
		clusters[k] = append(clusters[k], p)
	}
	return clusters
}
