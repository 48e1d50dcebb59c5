package render

import (
	"math"

	"github.com/ChicagoDave/realmmap/pkg/geo"
	"github.com/ChicagoDave/realmmap/pkg/realm"
)

// MarkerOutline returns the closed outline of a marker icon centred on c,
// size units across. Coordinates are in the caller's space, normally screen
// space so markers keep their size under zoom.
func MarkerOutline(icon string, c geo.Point2D, size float64) []geo.Point2D {
	h := size / 2
	switch icon {
	case realm.IconSquare:
		return offset(c, -h, -h, h, -h, h, h, -h, h)
	case realm.IconDiamond:
		return offset(c, 0, -h, h, 0, 0, h, -h, 0)
	case realm.IconHouse:
		return offset(c, -h, -h*0.1, 0, -h, h, -h*0.1, h, h, -h, h)
	case realm.IconTower:
		return offset(c, -h*0.5, -h, h*0.5, -h, h*0.5, h, -h*0.5, h)
	case realm.IconKeep:
		q := h / 3
		return offset(c,
			-h, -h, -q, -h, -q, -h+q, q, -h+q, q, -h, h, -h,
			h, h, -h, h)
	case realm.IconCross:
		q := h / 3
		return offset(c,
			-q, -h, q, -h, q, -q, h, -q, h, q, q, q,
			q, h, -q, h, -q, q, -h, q, -h, -q, -q, -q)
	case realm.IconPick, realm.IconCamp:
		return offset(c, 0, -h, h, h, -h, h)
	case realm.IconFlag:
		return offset(c, -h, -h, h, -h*0.4, -h, h*0.2)
	case realm.IconBarrel:
		return regular(c, h, 8, math.Pi/8)
	case realm.IconStar:
		return star(c, h, h*0.45)
	default:
		return regular(c, h, 12, 0)
	}
}

// CircleOutline approximates a circle with n segments.
func CircleOutline(c geo.Point2D, r float64, n int) []geo.Point2D {
	return regular(c, r, n, 0)
}

func offset(c geo.Point2D, coords ...float64) []geo.Point2D {
	pts := make([]geo.Point2D, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		pts = append(pts, geo.Pt(c.X+coords[i], c.Y+coords[i+1]))
	}
	return pts
}

func regular(c geo.Point2D, r float64, n int, phase float64) []geo.Point2D {
	pts := make([]geo.Point2D, n)
	for i := range pts {
		a := phase + 2*math.Pi*float64(i)/float64(n)
		pts[i] = geo.Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
	}
	return pts
}

func star(c geo.Point2D, outer, inner float64) []geo.Point2D {
	pts := make([]geo.Point2D, 10)
	for i := range pts {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + math.Pi*float64(i)/5
		pts[i] = geo.Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a))
	}
	return pts
}

// StrokeOutline returns the quad covering the segment a-b drawn width wide.
func StrokeOutline(a, b geo.Point2D, width float64) []geo.Point2D {
	d := b.Sub(a)
	l := d.Length()
	if l == 0 {
		return nil
	}
	n := d.Perp().Scale(width / 2 / l)
	return []geo.Point2D{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}
}
