package geo

import (
	"math"
	"sort"
)

// VoronoiCell represents one cell in a Voronoi diagram.
type VoronoiCell struct {
	SeedIndex int     // index into the original seed array
	Seed      Point2D // the seed point
	Polygon   Polygon // the cell boundary
	Neighbors []int   // indices of neighboring seed points
}

// Voronoi computes the Voronoi diagram of the given seed points,
// clipped to the given bounding polygon.
//
// Uses half-plane intersection for cell geometry (robust for small n);
// neighbors are cells sharing a boundary segment. Points on a bisector
// lie on the boundary of both cells; NearestSeed resolves them to the
// lower index.
func Voronoi(seeds []Point2D, bounds Polygon) []VoronoiCell {
	n := len(seeds)
	if n == 0 {
		return nil
	}
	bounds = bounds.EnsureCCW()
	if n == 1 {
		return []VoronoiCell{{
			SeedIndex: 0,
			Seed:      seeds[0],
			Polygon:   bounds,
		}}
	}

	cells := make([]VoronoiCell, n)
	for i := 0; i < n; i++ {
		cells[i] = VoronoiCell{
			SeedIndex: i,
			Seed:      seeds[i],
			Polygon:   voronoiCellByHalfPlanes(i, seeds, bounds),
		}
	}

	neighbors := sharedEdgeNeighbors(cells, bounds)
	for i := 0; i < n; i++ {
		cells[i].Neighbors = neighbors[i]
	}

	return cells
}

// voronoiCellByHalfPlanes computes a Voronoi cell by intersecting half-planes.
// For each other seed, clip the bounds to the half-plane closer to seed[i].
func voronoiCellByHalfPlanes(seedIdx int, seeds []Point2D, bounds Polygon) Polygon {
	cell := bounds
	seed := seeds[seedIdx]
	for j, other := range seeds {
		if j == seedIdx {
			continue
		}
		mid := MidPoint(seed, other)
		dir := other.Sub(seed).Perp()
		cell = clipToHalfPlane(cell, mid, mid.Add(dir))
		if cell.IsEmpty() {
			break
		}
	}
	return cell
}

// sharedEdgeNeighbors returns, for each cell, the sorted indices of the
// cells it shares a boundary segment with. An edge of cell i whose midpoint
// is equidistant from seed i and seed j lies on their bisector, and since
// the midpoint is already nearest to seed i, it borders cell j too.
func sharedEdgeNeighbors(cells []VoronoiCell, bounds Polygon) [][]int {
	lo, hi := bounds.BoundingBox()
	eps := 1e-7 * math.Max(1, hi.Distance(lo))

	result := make([][]int, len(cells))
	for i, c := range cells {
		set := make(map[int]bool)
		for e := 0; e < c.Polygon.Len(); e++ {
			a, b := c.Polygon.Edge(e)
			if a.Distance(b) <= eps {
				continue
			}
			mid := MidPoint(a, b)
			di := mid.Distance(c.Seed)
			for j, other := range cells {
				if j == i || set[j] {
					continue
				}
				if math.Abs(mid.Distance(other.Seed)-di) <= eps {
					set[j] = true
				}
			}
		}
		keys := make([]int, 0, len(set))
		for k := range set {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		result[i] = keys
	}
	return result
}
