package render

import "github.com/ChicagoDave/realmmap/pkg/geo"

// Affine is a 2D affine transform in SVG matrix order:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity returns the transform that leaves points unchanged.
func Identity() Affine {
	return Affine{A: 1, D: 1}
}

// Translate returns a translation by (dx, dy).
func Translate(dx, dy float64) Affine {
	return Affine{A: 1, D: 1, E: dx, F: dy}
}

// Scale returns a uniform scale about the origin.
func Scale(s float64) Affine {
	return Affine{A: s, D: s}
}

// Then returns the transform that applies t first and next second.
func (t Affine) Then(next Affine) Affine {
	return Affine{
		A: next.A*t.A + next.C*t.B,
		B: next.B*t.A + next.D*t.B,
		C: next.A*t.C + next.C*t.D,
		D: next.B*t.C + next.D*t.D,
		E: next.A*t.E + next.C*t.F + next.E,
		F: next.B*t.E + next.D*t.F + next.F,
	}
}

// Apply transforms a point.
func (t Affine) Apply(p geo.Point2D) geo.Point2D {
	return geo.Point2D{
		X: t.A*p.X + t.C*p.Y + t.E,
		Y: t.B*p.X + t.D*p.Y + t.F,
	}
}

// ApplyAll transforms a slice of points into a new slice.
func (t Affine) ApplyAll(pts []geo.Point2D) []geo.Point2D {
	out := make([]geo.Point2D, len(pts))
	for i, p := range pts {
		out[i] = t.Apply(p)
	}
	return out
}

// ScaleFactor returns the length scale of a uniform transform.
func (t Affine) ScaleFactor() float64 {
	return geo.Pt(t.A, t.B).Length()
}

// Invert returns the inverse transform. ok is false for singular transforms.
func (t Affine) Invert() (Affine, bool) {
	det := t.A*t.D - t.B*t.C
	if det == 0 {
		return Affine{}, false
	}
	inv := Affine{
		A: t.D / det,
		B: -t.B / det,
		C: -t.C / det,
		D: t.A / det,
	}
	inv.E = -(inv.A*t.E + inv.C*t.F)
	inv.F = -(inv.B*t.E + inv.D*t.F)
	return inv, true
}

// ZoomAt scales by factor keeping the screen point pivot fixed.
func (t Affine) ZoomAt(pivot geo.Point2D, factor float64) Affine {
	return t.Then(Translate(-pivot.X, -pivot.Y)).Then(Scale(factor)).Then(Translate(pivot.X, pivot.Y))
}

// Fit returns the transform that maps a width x height map area into a
// viewW x viewH viewport with the given margin, preserving aspect ratio and
// centring the map.
func Fit(width, height, viewW, viewH, margin float64) Affine {
	if width <= 0 || height <= 0 {
		return Identity()
	}
	availW := viewW - 2*margin
	availH := viewH - 2*margin
	s := availW / width
	if sh := availH / height; sh < s {
		s = sh
	}
	dx := (viewW - width*s) / 2
	dy := (viewH - height*s) / 2
	return Scale(s).Then(Translate(dx, dy))
}
