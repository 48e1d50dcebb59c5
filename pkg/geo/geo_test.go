package geo

import (
	"math"
	"testing"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// --- Point2D tests ---

func TestPointDistance(t *testing.T) {
	a := Pt(0, 0)
	b := Pt(3, 4)
	if !approxEqual(a.Distance(b), 5.0, tolerance) {
		t.Errorf("expected distance 5.0, got %f", a.Distance(b))
	}
	if Distance(a, b) != Distance(b, a) {
		t.Error("distance should be symmetric")
	}
}

func TestPointLerp(t *testing.T) {
	a := Pt(0, 0)
	b := Pt(10, 10)
	mid := a.Lerp(b, 0.5)
	if !approxEqual(mid.X, 5, tolerance) || !approxEqual(mid.Y, 5, tolerance) {
		t.Errorf("expected (5,5), got (%f,%f)", mid.X, mid.Y)
	}
}

func TestSegmentDistance(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	cases := []struct {
		p    Point2D
		want float64
	}{
		{Pt(5, 3), 3},
		{Pt(-3, 4), 5},
		{Pt(13, 4), 5},
		{Pt(7, 0), 0},
	}
	for _, c := range cases {
		if got := SegmentDistance(c.p, a, b); !approxEqual(got, c.want, tolerance) {
			t.Errorf("SegmentDistance(%v) = %f, want %f", c.p, got, c.want)
		}
	}
	// Degenerate segment falls back to point distance.
	if got := SegmentDistance(Pt(3, 4), a, a); !approxEqual(got, 5, tolerance) {
		t.Errorf("degenerate segment distance = %f, want 5", got)
	}
}

func TestNearestSeedTieBreak(t *testing.T) {
	seeds := []Point2D{Pt(0, 0), Pt(10, 0)}
	if got := NearestSeed(Pt(5, 7), seeds); got != 0 {
		t.Errorf("equidistant point assigned to seed %d, want 0", got)
	}
	if got := NearestSeed(Pt(9, 0), seeds); got != 1 {
		t.Errorf("expected seed 1, got %d", got)
	}
	if got := NearestSeed(Pt(1, 1), nil); got != -1 {
		t.Errorf("expected -1 for no seeds, got %d", got)
	}
}

// --- Polygon tests ---

func TestPolygonAreaSquare(t *testing.T) {
	sq := Rect(0, 0, 10, 10)
	if !approxEqual(sq.Area(), 100, tolerance) {
		t.Errorf("expected area 100, got %f", sq.Area())
	}
	if sq.SignedArea() <= 0 {
		t.Error("Rect should be counterclockwise")
	}
}

func TestPolygonAreaTriangle(t *testing.T) {
	tri := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(0, 10))
	if !approxEqual(tri.Area(), 50, tolerance) {
		t.Errorf("expected area 50, got %f", tri.Area())
	}
}

func TestPolygonCentroid(t *testing.T) {
	sq := Rect(0, 0, 10, 10)
	c := sq.Centroid()
	if !approxEqual(c.X, 5, tolerance) || !approxEqual(c.Y, 5, tolerance) {
		t.Errorf("expected centroid (5,5), got (%f,%f)", c.X, c.Y)
	}
}

func TestPolygonContains(t *testing.T) {
	sq := Rect(0, 0, 10, 10)
	cases := []struct {
		name string
		p    Point2D
		want bool
	}{
		{"interior", Pt(5, 5), true},
		{"outside", Pt(15, 5), false},
		{"edge", Pt(10, 5), true},
		{"vertex", Pt(0, 0), true},
		{"bottom edge", Pt(4, 0), true},
		{"just outside", Pt(-0.001, 5), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := PointInPolygon(c.p, sq); got != c.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", c.p, got, c.want)
			}
		})
	}
}

func TestPolygonContainsConcave(t *testing.T) {
	// L-shape with the notch at the top right.
	l := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 5), Pt(5, 5), Pt(5, 10), Pt(0, 10))
	if !l.Contains(Pt(2, 8)) {
		t.Error("expected point in the upright arm to be inside")
	}
	if l.Contains(Pt(8, 8)) {
		t.Error("expected point in the notch to be outside")
	}
	if l.IsConvex() {
		t.Error("L-shape should not be convex")
	}
}

func TestPolygonBoundingBox(t *testing.T) {
	poly := NewPolygon(Pt(-3, 1), Pt(4, -2), Pt(2, 6))
	lo, hi := poly.BoundingBox()
	if lo != Pt(-3, -2) || hi != Pt(4, 6) {
		t.Errorf("expected bbox (-3,-2)-(4,6), got %v-%v", lo, hi)
	}
}

func TestPolygonPerimeter(t *testing.T) {
	sq := Rect(0, 0, 10, 10)
	if !approxEqual(sq.Perimeter(), 40, tolerance) {
		t.Errorf("expected perimeter 40, got %f", sq.Perimeter())
	}
}

func TestPolygonValidate(t *testing.T) {
	cases := []struct {
		name   string
		poly   Polygon
		reason string
	}{
		{"too few", NewPolygon(Pt(0, 0), Pt(1, 1)), "fewer than 3 vertices"},
		{"collinear", NewPolygon(Pt(0, 0), Pt(1, 1), Pt(2, 2)), "zero area"},
		{"bowtie", NewPolygon(Pt(0, 0), Pt(10, 10), Pt(10, 0), Pt(0, 5)), "self-intersecting"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.poly.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			gerr, ok := err.(*GeometryError)
			if !ok {
				t.Fatalf("expected *GeometryError, got %T", err)
			}
			if gerr.Reason != c.reason {
				t.Errorf("reason = %q, want %q", gerr.Reason, c.reason)
			}
		})
	}

	if err := Rect(0, 0, 5, 5).Validate(); err != nil {
		t.Errorf("square should be valid, got %v", err)
	}
}

func TestPolygonsOverlap(t *testing.T) {
	base := Rect(0, 0, 10, 10)
	cases := []struct {
		name  string
		other Polygon
		want  bool
	}{
		{"shared edge", Rect(10, 0, 10, 10), false},
		{"shared vertex", Rect(10, 10, 5, 5), false},
		{"partial", Rect(5, 5, 10, 10), true},
		{"nested", Rect(2, 2, 2, 2), true},
		{"disjoint", Rect(20, 20, 5, 5), false},
		{"identical", Rect(0, 0, 10, 10), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := PolygonsOverlap(base, c.other); got != c.want {
				t.Errorf("PolygonsOverlap = %v, want %v", got, c.want)
			}
			if got := PolygonsOverlap(c.other, base); got != c.want {
				t.Errorf("PolygonsOverlap (swapped) = %v, want %v", got, c.want)
			}
		})
	}
}

func TestPolygonsOverlapConcave(t *testing.T) {
	l := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 5), Pt(5, 5), Pt(5, 10), Pt(0, 10))
	if PolygonsOverlap(l, Rect(6, 6, 3, 3)) {
		t.Error("square in the notch should not overlap the L-shape")
	}
	if !PolygonsOverlap(l, Rect(4, 4, 3, 3)) {
		t.Error("square across the inner corner should overlap the L-shape")
	}
}

// --- Clipping tests ---

func TestClipToConvexSquareInsideSquare(t *testing.T) {
	inner := Rect(-5, -5, 10, 10)
	outer := Rect(-10, -10, 20, 20)
	clipped := ClipToConvex(inner, outer)
	if !approxEqual(clipped.Area(), inner.Area(), tolerance) {
		t.Errorf("expected area %f, got %f", inner.Area(), clipped.Area())
	}
}

func TestClipToConvexPartialOverlap(t *testing.T) {
	a := Rect(0, 0, 10, 10)
	b := Rect(5, 5, 10, 10)
	clipped := ClipToConvex(a, b)
	if !approxEqual(clipped.Area(), 25, tolerance) {
		t.Errorf("expected area 25, got %f", clipped.Area())
	}
}

func TestClipToConvexNoOverlap(t *testing.T) {
	a := Rect(0, 0, 5, 5)
	b := Rect(20, 20, 5, 5)
	clipped := ClipToConvex(a, b)
	if !clipped.IsEmpty() {
		t.Errorf("expected empty polygon, got area %f", clipped.Area())
	}
}

// --- Voronoi tests ---

func TestVoronoiTwoPoints(t *testing.T) {
	seeds := []Point2D{Pt(-5, 0), Pt(5, 0)}
	bounds := Rect(-20, -20, 40, 40)
	cells := Voronoi(seeds, bounds)

	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	totalArea := bounds.Area()
	for i, c := range cells {
		if c.Polygon.IsEmpty() {
			t.Errorf("cell %d is empty", i)
			continue
		}
		if !approxEqual(c.Polygon.Area(), totalArea/2, tolerance) {
			t.Errorf("cell %d area %f, expected %f", i, c.Polygon.Area(), totalArea/2)
		}
	}
	if len(cells[0].Neighbors) != 1 || cells[0].Neighbors[0] != 1 {
		t.Errorf("cell 0 neighbors = %v, want [1]", cells[0].Neighbors)
	}
	if len(cells[1].Neighbors) != 1 || cells[1].Neighbors[0] != 0 {
		t.Errorf("cell 1 neighbors = %v, want [0]", cells[1].Neighbors)
	}
}

func TestVoronoiFourPointsSquare(t *testing.T) {
	seeds := []Point2D{Pt(-5, -5), Pt(5, -5), Pt(5, 5), Pt(-5, 5)}
	bounds := Rect(-20, -20, 40, 40)
	cells := Voronoi(seeds, bounds)

	if len(cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(cells))
	}
	expectedArea := bounds.Area() / 4
	for i, c := range cells {
		if !approxEqual(c.Polygon.Area(), expectedArea, tolerance) {
			t.Errorf("cell %d area %f, expected %f", i, c.Polygon.Area(), expectedArea)
		}
		// Diagonal seeds meet only at the centre point.
		if len(c.Neighbors) != 2 {
			t.Errorf("cell %d neighbors = %v, expected 2", i, c.Neighbors)
		}
	}
}

func TestVoronoiSinglePoint(t *testing.T) {
	seeds := []Point2D{Pt(0, 0)}
	bounds := Rect(-100, -100, 200, 200)
	cells := Voronoi(seeds, bounds)

	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	if !approxEqual(cells[0].Polygon.Area(), bounds.Area(), tolerance) {
		t.Errorf("single cell area %f, expected %f", cells[0].Polygon.Area(), bounds.Area())
	}
	if len(cells[0].Neighbors) != 0 {
		t.Errorf("single cell should have no neighbors, got %v", cells[0].Neighbors)
	}
}

func TestVoronoiPartitionsBounds(t *testing.T) {
	seeds := []Point2D{
		Pt(120, 80), Pt(640, 210), Pt(400, 520), Pt(880, 760), Pt(210, 900), Pt(700, 430),
	}
	bounds := Rect(0, 0, 1000, 1000)
	cells := Voronoi(seeds, bounds)

	total := 0.0
	for i, c := range cells {
		if err := c.Polygon.Validate(); err != nil {
			t.Errorf("cell %d invalid: %v", i, err)
		}
		if !c.Polygon.Contains(c.Seed) {
			t.Errorf("cell %d does not contain its seed", i)
		}
		total += c.Polygon.Area()
		for j := i + 1; j < len(cells); j++ {
			if PolygonsOverlap(c.Polygon, cells[j].Polygon) {
				t.Errorf("cells %d and %d overlap", i, j)
			}
		}
	}
	if !approxEqual(total, bounds.Area(), 1e-6*bounds.Area()) {
		t.Errorf("total cell area %f, expected %f", total, bounds.Area())
	}

	// Neighbor relation is symmetric.
	for i, c := range cells {
		for _, j := range c.Neighbors {
			found := false
			for _, k := range cells[j].Neighbors {
				if k == i {
					found = true
				}
			}
			if !found {
				t.Errorf("cell %d lists %d as neighbor but not vice versa", i, j)
			}
		}
	}
}

// --- Grid tests ---

func TestGridWithin(t *testing.T) {
	g := NewGrid(10)
	g.Insert(Pt(0, 0))
	g.Insert(Pt(5, 0))
	g.Insert(Pt(30, 30))
	g.Insert(Pt(-8, 0))

	got := g.Within(Pt(0, 0), 9)
	want := []int{0, 1, 3}
	if len(got) != len(want) {
		t.Fatalf("Within = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Within = %v, want %v", got, want)
			break
		}
	}
	if g.AnyWithin(Pt(20, 20), 5) {
		t.Error("expected no point near (20,20)")
	}
	if !g.AnyWithin(Pt(28, 28), 5) {
		t.Error("expected a point near (28,28)")
	}
	if g.Len() != 4 {
		t.Errorf("Len = %d, want 4", g.Len())
	}
}

// --- Poisson-disc tests ---

func TestPoissonDiscSpacing(t *testing.T) {
	region := Rect(0, 0, 200, 200)
	var pts []Point2D
	for p := range PoissonDiscSample(region, 15, 30, 7) {
		pts = append(pts, p)
	}
	if len(pts) < 20 {
		t.Fatalf("expected a reasonable fill, got %d points", len(pts))
	}
	for i := range pts {
		if !region.Contains(pts[i]) {
			t.Errorf("point %v outside region", pts[i])
		}
		for j := i + 1; j < len(pts); j++ {
			if pts[i].Distance(pts[j]) < 15 {
				t.Fatalf("points %d and %d only %f apart", i, j, pts[i].Distance(pts[j]))
			}
		}
	}
}

func TestPoissonDiscRestartable(t *testing.T) {
	seq := PoissonDiscSample(Rect(0, 0, 100, 100), 10, 20, 3)
	var first, second []Point2D
	for p := range seq {
		first = append(first, p)
	}
	for p := range seq {
		second = append(second, p)
	}
	if len(first) == 0 || len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("point %d differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestPoissonDiscEarlyStop(t *testing.T) {
	n := 0
	for range PoissonDiscSample(Rect(0, 0, 100, 100), 5, 30, 1) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("expected to stop after 3 points, got %d", n)
	}
}

func TestPoissonDiscDegenerateInput(t *testing.T) {
	for range PoissonDiscSample(Polygon{}, 5, 30, 1) {
		t.Fatal("empty region should yield nothing")
	}
	for range PoissonDiscSample(Rect(0, 0, 10, 10), 5, 0, 1) {
		t.Fatal("zero attempts should yield nothing")
	}
}
