package render

import (
	"hash/fnv"

	"github.com/ChicagoDave/realmmap/pkg/geo"
	"github.com/ChicagoDave/realmmap/pkg/realm"
)

// provincePalette holds the parchment tones unowned provinces cycle through.
var provincePalette = []Color{
	{R: 0xe8, G: 0xdc, B: 0xb5, A: 0xff},
	{R: 0xd9, G: 0xc8, B: 0x9e, A: 0xff},
	{R: 0xcf, G: 0xd8, B: 0xa8, A: 0xff},
	{R: 0xe3, G: 0xc9, B: 0xa4, A: 0xff},
	{R: 0xc8, G: 0xcf, B: 0xb0, A: 0xff},
	{R: 0xea, G: 0xd4, B: 0xc0, A: 0xff},
}

// ownerPalette tints provinces held by a lord; a lord always gets the same
// tint.
var ownerPalette = []Color{
	{R: 0xc9, G: 0x8b, B: 0x8b, A: 0xff},
	{R: 0x8b, G: 0xa6, B: 0xc9, A: 0xff},
	{R: 0xa8, G: 0xc9, B: 0x8b, A: 0xff},
	{R: 0xc9, G: 0xb5, B: 0x8b, A: 0xff},
	{R: 0xb0, G: 0x8b, B: 0xc9, A: 0xff},
}

var (
	borderColor     = Color{R: 0x6b, G: 0x5a, B: 0x3e, A: 0xff}
	forestColor     = Color{R: 0x3d, G: 0x6b, B: 0x35, A: 0xcc}
	tradeRouteColor = Color{R: 0x8a, G: 0x4b, B: 0x1f, A: 0xff}
	pathColor       = Color{R: 0xa8, G: 0x8a, B: 0x5c, A: 0xff}
	markerFill      = Color{R: 0xfa, G: 0xf6, B: 0xea, A: 0xff}
	markerStroke    = Color{R: 0x2b, G: 0x22, B: 0x16, A: 0xff}
)

const (
	borderWidth     = 2.0
	treeRadius      = 3.0
	tradeRouteWidth = 3.0
	pathWidth       = 1.5
	markerSize      = 8.0
	seatMarkerSize  = 12.0
)

// Render returns the draw commands for m in painting order: province fills,
// forest clusters, road polylines, then location markers. Within a layer
// commands follow the map's entity order.
func Render(m *realm.Map) []Command {
	if m == nil {
		return nil
	}
	cmds := make([]Command, 0, len(m.Provinces)+len(m.Forests)+len(m.Roads)+len(m.Locations))

	for i, p := range m.Provinces {
		cmds = append(cmds, Command{
			Kind:     PolygonFill,
			Layer:    LayerProvinces,
			EntityID: p.ID,
			Points:   p.Boundary.Vertices,
			Fill:     provinceColor(i, p.Owner),
			Stroke:   borderColor,
			Width:    borderWidth,
		})
	}

	for _, f := range m.Forests {
		cmds = append(cmds, Command{
			Kind:     PointCluster,
			Layer:    LayerForests,
			EntityID: f.ID,
			Points:   f.Points,
			Fill:     forestColor,
			Width:    treeRadius,
		})
	}

	for _, r := range m.Roads {
		cmd := Command{
			Kind:     Polyline,
			Layer:    LayerRoads,
			EntityID: r.ID,
			Points:   r.Waypoints,
			Stroke:   pathColor,
			Width:    pathWidth,
			Dashed:   true,
		}
		if r.Class == realm.RoadTradeRoute {
			cmd.Stroke = tradeRouteColor
			cmd.Width = tradeRouteWidth
			cmd.Dashed = false
		}
		cmds = append(cmds, cmd)
	}

	for _, l := range m.Locations {
		tr := l.Kind.Traits()
		size := markerSize
		if tr.Seat {
			size = seatMarkerSize
		}
		cmds = append(cmds, Command{
			Kind:     Marker,
			Layer:    LayerLocations,
			EntityID: l.ID,
			Points:   []geo.Point2D{l.Position},
			Fill:     markerFill,
			Stroke:   markerStroke,
			Width:    1,
			Size:     size,
			Icon:     tr.Icon,
			Label:    l.DisplayName(),
		})
	}
	return cmds
}

func provinceColor(i int, owner string) Color {
	if owner == "" {
		return provincePalette[i%len(provincePalette)]
	}
	h := fnv.New32a()
	h.Write([]byte(owner))
	return ownerPalette[int(h.Sum32()%uint32(len(ownerPalette)))]
}
