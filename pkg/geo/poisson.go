package geo

import "iter"

// poissonStream separates Poisson sampling draws from other users of a seed.
const poissonStream = 0x9e3779b97f4a7c15

// PoissonDiscSample returns a lazy sequence of points inside region, each at
// least minDistance from every point yielded before it. Candidates are drawn
// uniformly from the region's bounding box; the sequence ends after
// maxAttempts consecutive rejected candidates. Every range over the returned
// sequence restarts from the seed and yields the same points.
func PoissonDiscSample(region Polygon, minDistance float64, maxAttempts int, seed int64) iter.Seq[Point2D] {
	return func(yield func(Point2D) bool) {
		if region.IsEmpty() || minDistance <= 0 || maxAttempts <= 0 {
			return
		}
		rng := NewRand(seed, poissonStream)
		lo, hi := region.BoundingBox()
		grid := NewGrid(minDistance)

		rejected := 0
		for rejected < maxAttempts {
			c := RandomPointIn(rng, lo, hi)
			if !region.Contains(c) || grid.AnyWithin(c, minDistance) {
				rejected++
				continue
			}
			rejected = 0
			grid.Insert(c)
			if !yield(c) {
				return
			}
		}
	}
}
