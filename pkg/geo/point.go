package geo

import "math"

// Point2D is a position on the map plane in map units. Y grows downwards,
// matching screen and SVG coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Origin is the zero point.
var Origin = Point2D{0, 0}

// Pt is a shorthand constructor for Point2D.
func Pt(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Add returns p + q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2D{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point2D) Sub(q Point2D) Point2D {
	return Point2D{p.X - q.X, p.Y - q.Y}
}

// Scale returns p * s.
func (p Point2D) Scale(s float64) Point2D {
	return Point2D{p.X * s, p.Y * s}
}

// Length returns the Euclidean length of the vector.
func (p Point2D) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dot returns the dot product of p and q.
func (p Point2D) Dot(q Point2D) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the 2D cross product (z-component of 3D cross).
func (p Point2D) Cross(q Point2D) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Distance returns the Euclidean distance from p to q.
func (p Point2D) Distance(q Point2D) float64 {
	return p.Sub(q).Length()
}

// Lerp returns the linear interpolation between p and q at t in [0,1].
func (p Point2D) Lerp(q Point2D, t float64) Point2D {
	return Point2D{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Perp returns a vector perpendicular to p (rotated 90 degrees counterclockwise).
func (p Point2D) Perp() Point2D {
	return Point2D{-p.Y, p.X}
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point2D) float64 {
	return p.Distance(q)
}

// MidPoint returns the midpoint between p and q.
func MidPoint(p, q Point2D) Point2D {
	return p.Lerp(q, 0.5)
}

// SegmentDistance returns the distance from p to the closest point of the
// segment a-b.
func SegmentDistance(p, a, b Point2D) float64 {
	d := b.Sub(a)
	lenSq := d.Dot(d)
	if lenSq < 1e-12 {
		return p.Distance(a)
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(d)/lenSq))
	return p.Distance(a.Lerp(b, t))
}

// NearestSeed returns the index of the seed closest to p. Equidistant seeds
// resolve to the lower index. Returns -1 for an empty seed list.
func NearestSeed(p Point2D, seeds []Point2D) int {
	best := -1
	bestDist := math.Inf(1)
	for i, s := range seeds {
		if d := p.Distance(s); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
