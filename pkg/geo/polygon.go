package geo

import "math"

// boundaryEpsilon is the distance within which a point counts as lying on a
// polygon edge.
const boundaryEpsilon = 1e-9

// Polygon is a closed polygon defined by its vertices in order.
type Polygon struct {
	Vertices []Point2D `json:"vertices"`
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point2D) Polygon {
	return Polygon{Vertices: pts}
}

// Rect returns the axis-aligned rectangle [x, x+w] x [y, y+h] in CCW order.
func Rect(x, y, w, h float64) Polygon {
	return NewPolygon(Pt(x, y), Pt(x+w, y), Pt(x+w, y+h), Pt(x, y+h))
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsEmpty returns true if the polygon has fewer than 3 vertices.
func (p Polygon) IsEmpty() bool {
	return len(p.Vertices) < 3
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (p Polygon) Edge(i int) (Point2D, Point2D) {
	n := len(p.Vertices)
	return p.Vertices[i%n], p.Vertices[(i+1)%n]
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X * p.Vertices[j].Y
		area -= p.Vertices[j].X * p.Vertices[i].Y
	}
	return area / 2
}

// Area returns the unsigned area of the polygon.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// EnsureCCW returns the polygon with vertices in counterclockwise order.
func (p Polygon) EnsureCCW() Polygon {
	if p.SignedArea() < 0 {
		return p.Reverse()
	}
	return p
}

// Reverse returns the polygon with reversed vertex order.
func (p Polygon) Reverse() Polygon {
	n := len(p.Vertices)
	rev := make([]Point2D, n)
	for i, v := range p.Vertices {
		rev[n-1-i] = v
	}
	return Polygon{Vertices: rev}
}

// Centroid returns the centroid of the polygon.
func (p Polygon) Centroid() Point2D {
	n := len(p.Vertices)
	if n == 0 {
		return Point2D{}
	}
	a := p.SignedArea()
	if n < 3 || math.Abs(a) < 1e-12 {
		// Degenerate: return average.
		sum := Point2D{}
		for _, v := range p.Vertices {
			sum = sum.Add(v)
		}
		return sum.Scale(1.0 / float64(n))
	}
	cx, cy := 0.0, 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p.Vertices[i].X*p.Vertices[j].Y - p.Vertices[j].X*p.Vertices[i].Y
		cx += (p.Vertices[i].X + p.Vertices[j].X) * cross
		cy += (p.Vertices[i].Y + p.Vertices[j].Y) * cross
	}
	f := 1.0 / (6.0 * a)
	return Point2D{cx * f, cy * f}
}

// BoundingBox returns the axis-aligned bounding box as (min, max).
func (p Polygon) BoundingBox() (Point2D, Point2D) {
	if len(p.Vertices) == 0 {
		return Point2D{}, Point2D{}
	}
	minP := p.Vertices[0]
	maxP := p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		minP.X = math.Min(minP.X, v.X)
		minP.Y = math.Min(minP.Y, v.Y)
		maxP.X = math.Max(maxP.X, v.X)
		maxP.Y = math.Max(maxP.Y, v.Y)
	}
	return minP, maxP
}

// Contains reports whether pt lies inside the polygon or on its boundary.
// Interior points are decided by ray casting.
func (p Polygon) Contains(pt Point2D) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	if p.OnBoundary(pt) {
		return true
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// OnBoundary reports whether pt lies on one of the polygon's edges.
func (p Polygon) OnBoundary(pt Point2D) bool {
	return p.DistanceToBoundary(pt) <= boundaryEpsilon
}

// DistanceToBoundary returns the distance from pt to the nearest edge.
func (p Polygon) DistanceToBoundary(pt Point2D) float64 {
	n := len(p.Vertices)
	if n == 0 {
		return math.Inf(1)
	}
	best := math.Inf(1)
	for i := 0; i < n; i++ {
		a, b := p.Edge(i)
		best = math.Min(best, SegmentDistance(pt, a, b))
	}
	return best
}

// PointInPolygon reports whether pt lies inside poly, boundary included.
func PointInPolygon(pt Point2D, poly Polygon) bool {
	return poly.Contains(pt)
}

// Perimeter returns the total perimeter length.
func (p Polygon) Perimeter() float64 {
	n := len(p.Vertices)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		a, b := p.Edge(i)
		total += a.Distance(b)
	}
	return total
}

// IsConvex reports whether every turn of the polygon goes the same way.
// Collinear vertices are tolerated.
func (p Polygon) IsConvex() bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		c := p.Vertices[(i+2)%n]
		cross := b.Sub(a).Cross(c.Sub(b))
		if math.Abs(cross) < 1e-12 {
			continue
		}
		s := 1
		if cross < 0 {
			s = -1
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return sign != 0
}

// Validate checks that the polygon is simple: at least 3 vertices, non-zero
// area and no two non-adjacent edges touching.
func (p Polygon) Validate() error {
	n := len(p.Vertices)
	if n < 3 {
		return &GeometryError{Op: "validate polygon", Reason: "fewer than 3 vertices"}
	}
	if p.Area() < 1e-12 {
		return &GeometryError{Op: "validate polygon", Reason: "zero area"}
	}
	for i := 0; i < n; i++ {
		a1, a2 := p.Edge(i)
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			b1, b2 := p.Edge(j)
			if segmentsTouch(a1, a2, b1, b2) {
				return &GeometryError{Op: "validate polygon", Reason: "self-intersecting"}
			}
		}
	}
	return nil
}

// PolygonsOverlap reports whether the interiors of a and b intersect with
// positive area. Polygons that only share edges or vertices do not overlap.
func PolygonsOverlap(a, b Polygon) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return false
	}
	aMin, aMax := a.BoundingBox()
	bMin, bMax := b.BoundingBox()
	if aMax.X <= bMin.X || bMax.X <= aMin.X || aMax.Y <= bMin.Y || bMax.Y <= aMin.Y {
		return false
	}

	if a.IsConvex() && b.IsConvex() {
		inter := ClipToConvex(a.EnsureCCW(), b.EnsureCCW())
		limit := overlapTolerance * math.Max(1, math.Min(a.Area(), b.Area()))
		return inter.Area() > limit
	}

	for i := 0; i < a.Len(); i++ {
		a1, a2 := a.Edge(i)
		for j := 0; j < b.Len(); j++ {
			b1, b2 := b.Edge(j)
			if segmentsCrossProperly(a1, a2, b1, b2) {
				return true
			}
		}
	}
	if strictlyInside(a, b) || strictlyInside(b, a) {
		return true
	}
	return false
}

// overlapTolerance is the intersection area, relative to the smaller
// polygon, below which two polygons count as merely touching.
const overlapTolerance = 1e-9

// strictlyInside reports whether any vertex or the centroid of inner lies in
// the interior of outer.
func strictlyInside(inner, outer Polygon) bool {
	samples := append([]Point2D{inner.Centroid()}, inner.Vertices...)
	for _, v := range samples {
		if outer.Contains(v) && !outer.OnBoundary(v) && inner.Contains(v) {
			return true
		}
	}
	return false
}

func orientation(a, b, c Point2D) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// segmentsCrossProperly reports whether a1-a2 and b1-b2 cross at a single
// point interior to both segments.
func segmentsCrossProperly(a1, a2, b1, b2 Point2D) bool {
	d1 := orientation(b1, b2, a1)
	d2 := orientation(b1, b2, a2)
	d3 := orientation(a1, a2, b1)
	d4 := orientation(a1, a2, b2)
	return ((d1 > boundaryEpsilon && d2 < -boundaryEpsilon) || (d1 < -boundaryEpsilon && d2 > boundaryEpsilon)) &&
		((d3 > boundaryEpsilon && d4 < -boundaryEpsilon) || (d3 < -boundaryEpsilon && d4 > boundaryEpsilon))
}

// segmentsTouch reports whether the closed segments a1-a2 and b1-b2 share
// any point.
func segmentsTouch(a1, a2, b1, b2 Point2D) bool {
	if segmentsCrossProperly(a1, a2, b1, b2) {
		return true
	}
	return SegmentDistance(a1, b1, b2) <= boundaryEpsilon ||
		SegmentDistance(a2, b1, b2) <= boundaryEpsilon ||
		SegmentDistance(b1, a1, a2) <= boundaryEpsilon ||
		SegmentDistance(b2, a1, a2) <= boundaryEpsilon
}
