// Package realm holds the map entity model: provinces, locations, roads and
// forests, and the invariants that bind them into one map snapshot.
package realm

import (
	"github.com/ChicagoDave/realmmap/pkg/geo"
)

// Tolerance is the relative area error allowed when checking that province
// boundaries cover the map area.
const Tolerance = 1e-6

// Area is the rectangular game area anchored at the origin.
type Area struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Polygon returns the area boundary in counterclockwise order.
func (a Area) Polygon() geo.Polygon {
	return geo.Rect(0, 0, a.Width, a.Height)
}

// Size returns the surface of the area.
func (a Area) Size() float64 {
	return a.Width * a.Height
}

// Contains reports whether p lies inside the area, edges included.
func (a Area) Contains(p geo.Point2D) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= a.Width && p.Y <= a.Height
}

// Province is one cell of the partition of the map area.
type Province struct {
	ID        string      `json:"id"`
	Boundary  geo.Polygon `json:"boundary"`
	Seed      geo.Point2D `json:"seed"`
	Neighbors []string    `json:"neighbors"`
	Area      float64     `json:"area"`
	Owner     string      `json:"owner,omitempty"` // lord ID, empty when unowned
}

// Location is a settlement or landmark placed inside a province.
type Location struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Position   geo.Point2D `json:"position"`
	Kind       Kind        `json:"kind"`
	ProvinceID string      `json:"province_id"`
	Owner      string      `json:"owner,omitempty"`
	Population int         `json:"population"`
	Soldiers   int         `json:"soldiers"`
}

// DisplayName returns the location name, falling back to its kind label.
func (l Location) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.Kind.Label()
}

// RoadClass distinguishes trade routes from ordinary paths.
type RoadClass string

const (
	RoadTradeRoute RoadClass = "trade_route"
	RoadPath       RoadClass = "path"
)

// Road is an undirected straight connection between two locations.
type Road struct {
	ID        string        `json:"id"`
	From      string        `json:"from"`
	To        string        `json:"to"`
	Waypoints []geo.Point2D `json:"waypoints"`
	Class     RoadClass     `json:"class"`
	Length    float64       `json:"length"`
}

// ForestRegion is a cluster of tree points inside one province.
type ForestRegion struct {
	ID         string        `json:"id"`
	ProvinceID string        `json:"province_id"`
	Points     []geo.Point2D `json:"points"`
	Density    float64       `json:"density"`
}

// Map is one generated realm. It is built by a single generation run and
// never mutated afterwards; ownership edits return a new Map.
type Map struct {
	ID        string         `json:"id"`
	Seed      int64          `json:"seed"`
	Area      Area           `json:"area"`
	Provinces []Province     `json:"provinces"`
	Locations []Location     `json:"locations"`
	Roads     []Road         `json:"roads"`
	Forests   []ForestRegion `json:"forests"`
	Params    Params         `json:"params"`
}

// Province returns the province with the given ID.
func (m *Map) Province(id string) (Province, bool) {
	for _, p := range m.Provinces {
		if p.ID == id {
			return p, true
		}
	}
	return Province{}, false
}

// Location returns the location with the given ID.
func (m *Map) Location(id string) (Location, bool) {
	for _, l := range m.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}

// ProvinceAt returns the province containing p. A point on a shared
// boundary belongs to the province listed first.
func (m *Map) ProvinceAt(p geo.Point2D) (Province, bool) {
	return ProvinceAt(m.Provinces, p)
}

// ProvinceAt returns the first province in provinces whose boundary
// contains p.
func ProvinceAt(provinces []Province, p geo.Point2D) (Province, bool) {
	for _, prov := range provinces {
		if prov.Boundary.Contains(p) {
			return prov, true
		}
	}
	return Province{}, false
}

// LocationsIn returns the locations inside the given province, in map order.
func (m *Map) LocationsIn(provinceID string) []Location {
	var out []Location
	for _, l := range m.Locations {
		if l.ProvinceID == provinceID {
			out = append(out, l)
		}
	}
	return out
}

// LocationsOwnedBy returns the locations held by the given lord.
func (m *Map) LocationsOwnedBy(lordID string) []Location {
	if lordID == "" {
		return nil
	}
	var out []Location
	for _, l := range m.Locations {
		if l.Owner == lordID {
			out = append(out, l)
		}
	}
	return out
}

// ProvincesOwnedBy returns the provinces held by the given lord.
func (m *Map) ProvincesOwnedBy(lordID string) []Province {
	if lordID == "" {
		return nil
	}
	var out []Province
	for _, p := range m.Provinces {
		if p.Owner == lordID {
			out = append(out, p)
		}
	}
	return out
}

// RoadsAt returns the roads with the given location as an endpoint.
func (m *Map) RoadsAt(locationID string) []Road {
	var out []Road
	for _, r := range m.Roads {
		if r.From == locationID || r.To == locationID {
			out = append(out, r)
		}
	}
	return out
}

// KindCounts returns how many locations of each kind the map holds.
func (m *Map) KindCounts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, l := range m.Locations {
		counts[l.Kind]++
	}
	return counts
}

// ForestPoints returns the total number of tree points over all regions.
func (m *Map) ForestPoints() int {
	n := 0
	for _, f := range m.Forests {
		n += len(f.Points)
	}
	return n
}
