// Package render turns a realm map into an ordered list of draw commands.
// It holds no state about the map and applies no viewport transform; draw
// surfaces apply an Affine to command coordinates themselves.
package render

import (
	"fmt"

	"github.com/ChicagoDave/realmmap/pkg/geo"
)

// CommandKind identifies the primitive a command draws.
type CommandKind string

const (
	PolygonFill  CommandKind = "polygon_fill"
	PointCluster CommandKind = "point_cluster"
	Polyline     CommandKind = "polyline"
	Marker       CommandKind = "marker"
)

// Layer orders commands; lower layers are drawn first.
type Layer int

const (
	LayerProvinces Layer = iota
	LayerForests
	LayerRoads
	LayerLocations
)

// Color is an 8-bit RGBA colour.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGBA returns the colour as 16-bit premultiplied components, satisfying
// image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A)
	r = uint32(c.R) * a / 0xff
	g = uint32(c.G) * a / 0xff
	b = uint32(c.B) * a / 0xff
	return r * 0x101, g * 0x101, b * 0x101, a * 0x101
}

// Hex returns the colour as #rrggbb, dropping alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Opacity returns alpha in [0,1].
func (c Color) Opacity() float64 {
	return float64(c.A) / 255
}

// Command is one draw primitive in map coordinates.
type Command struct {
	Kind     CommandKind   `json:"kind"`
	Layer    Layer         `json:"layer"`
	EntityID string        `json:"entity_id"`
	Points   []geo.Point2D `json:"points"`
	Fill     Color         `json:"fill"`
	Stroke   Color         `json:"stroke"`
	Width    float64       `json:"width"`            // stroke width, or point radius for clusters
	Size     float64       `json:"size,omitempty"`   // marker size
	Icon     string        `json:"icon,omitempty"`   // marker shape
	Label    string        `json:"label,omitempty"`  // text drawn beside markers
	Dashed   bool          `json:"dashed,omitempty"` // polyline style
}
