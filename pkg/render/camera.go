package render

import (
	"github.com/ChicagoDave/realmmap/pkg/geo"
	"github.com/ChicagoDave/realmmap/pkg/realm"
)

// Zoom limits relative to the fitted view.
const (
	MinZoom = 0.25
	MaxZoom = 40
)

// Camera maps map coordinates to screen pixels. The fitted transform shows
// the whole area; user pans and zooms are layered on top of it.
type Camera struct {
	fit  Affine
	user Affine
}

// NewCamera fits a width x height area into a screen of sw x sh pixels.
func NewCamera(width, height float64, sw, sh int) Camera {
	c := Camera{user: Identity()}
	c.Refit(width, height, sw, sh)
	return c
}

// Refit recomputes the fitted transform, keeping user pan and zoom.
func (c *Camera) Refit(width, height float64, sw, sh int) {
	c.fit = Fit(width, height, float64(sw), float64(sh), 16)
}

// Transform is the full map-to-screen transform.
func (c Camera) Transform() Affine {
	return c.fit.Then(c.user)
}

// Zoom is the user zoom factor relative to the fitted view.
func (c Camera) Zoom() float64 {
	return c.user.ScaleFactor()
}

// Pan moves the view by dx, dy screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.user = c.user.Then(Translate(dx, dy))
}

// ZoomAt scales by factor around a screen point, clamped to the zoom range.
func (c *Camera) ZoomAt(pivot geo.Point2D, factor float64) {
	z := c.Zoom() * factor
	if z < MinZoom {
		factor = MinZoom / c.Zoom()
	} else if z > MaxZoom {
		factor = MaxZoom / c.Zoom()
	}
	c.user = c.user.ZoomAt(pivot, factor)
}

// Reset drops user pan and zoom.
func (c *Camera) Reset() {
	c.user = Identity()
}

// ToMap converts a screen point to map coordinates.
func (c Camera) ToMap(p geo.Point2D) geo.Point2D {
	inv, ok := c.Transform().Invert()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

// PickLocation returns the location whose marker is nearest to the screen
// point, within radius pixels.
func PickLocation(m *realm.Map, t Affine, screen geo.Point2D, radius float64) (realm.Location, bool) {
	if m == nil {
		return realm.Location{}, false
	}
	best, bestDist := -1, radius
	for i, l := range m.Locations {
		if d := t.Apply(l.Position).Distance(screen); d <= bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return realm.Location{}, false
	}
	return m.Locations[best], true
}
