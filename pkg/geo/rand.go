package geo

import "math/rand/v2"

// NewRand returns a PCG-backed generator for the given seed. Distinct
// streams give independent sequences from the same seed, so each generation
// stage can draw without disturbing the others.
func NewRand(seed int64, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), stream))
}

// RandomPointIn returns a point uniformly distributed in the axis-aligned
// box [lo, hi].
func RandomPointIn(r *rand.Rand, lo, hi Point2D) Point2D {
	return Point2D{
		X: lo.X + r.Float64()*(hi.X-lo.X),
		Y: lo.Y + r.Float64()*(hi.Y-lo.Y),
	}
}
