package realm

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/realmmap/pkg/geo"
)

// IntegrityError reports a dangling reference or a broken invariant in a map.
type IntegrityError struct {
	Entity string // "province", "location", "road", "forest"
	ID     string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("map integrity: %s %s: %s", e.Entity, e.ID, e.Reason)
}

// distanceSlack absorbs floating point noise in distance invariants.
const distanceSlack = 1e-9

// Validate checks the cross-entity invariants of the map and returns the
// first violation as an *IntegrityError.
func (m *Map) Validate() error {
	if err := m.validateProvinces(); err != nil {
		return err
	}
	if err := m.validateLocations(); err != nil {
		return err
	}
	if err := m.validateRoads(); err != nil {
		return err
	}
	return m.validateForests()
}

func (m *Map) validateProvinces() error {
	seen := make(map[string]bool, len(m.Provinces))
	total := 0.0
	for _, p := range m.Provinces {
		if seen[p.ID] {
			return &IntegrityError{Entity: "province", ID: p.ID, Reason: "duplicate id"}
		}
		seen[p.ID] = true
		if err := p.Boundary.Validate(); err != nil {
			return &IntegrityError{Entity: "province", ID: p.ID, Reason: err.Error()}
		}
		for _, v := range p.Boundary.Vertices {
			if !m.Area.Contains(v) && m.Area.Polygon().DistanceToBoundary(v) > distanceSlack {
				return &IntegrityError{Entity: "province", ID: p.ID, Reason: fmt.Sprintf("vertex %v outside map area", v)}
			}
		}
		total += p.Boundary.Area()
	}
	for _, p := range m.Provinces {
		for _, n := range p.Neighbors {
			if !seen[n] {
				return &IntegrityError{Entity: "province", ID: p.ID, Reason: fmt.Sprintf("unknown neighbor %q", n)}
			}
		}
	}
	if len(m.Provinces) > 0 && math.Abs(total-m.Area.Size()) > Tolerance*m.Area.Size() {
		return &IntegrityError{Entity: "province", ID: "*", Reason: fmt.Sprintf("provinces cover %.3f of %.3f", total, m.Area.Size())}
	}
	for i := range m.Provinces {
		for j := i + 1; j < len(m.Provinces); j++ {
			if geo.PolygonsOverlap(m.Provinces[i].Boundary, m.Provinces[j].Boundary) {
				return &IntegrityError{Entity: "province", ID: m.Provinces[i].ID, Reason: fmt.Sprintf("overlaps %s", m.Provinces[j].ID)}
			}
		}
	}
	return nil
}

func (m *Map) validateLocations() error {
	seen := make(map[string]bool, len(m.Locations))
	for i, l := range m.Locations {
		if seen[l.ID] {
			return &IntegrityError{Entity: "location", ID: l.ID, Reason: "duplicate id"}
		}
		seen[l.ID] = true
		if !m.Area.Contains(l.Position) {
			return &IntegrityError{Entity: "location", ID: l.ID, Reason: "outside map area"}
		}
		prov, ok := m.Province(l.ProvinceID)
		if !ok {
			return &IntegrityError{Entity: "location", ID: l.ID, Reason: fmt.Sprintf("unknown province %q", l.ProvinceID)}
		}
		if !prov.Boundary.Contains(l.Position) {
			return &IntegrityError{Entity: "location", ID: l.ID, Reason: fmt.Sprintf("not inside province %s", l.ProvinceID)}
		}
		if m.Params.MinDistance > 0 {
			for _, other := range m.Locations[i+1:] {
				if l.Position.Distance(other.Position) < m.Params.MinDistance-distanceSlack {
					return &IntegrityError{Entity: "location", ID: l.ID, Reason: fmt.Sprintf("closer than %.1f to %s", m.Params.MinDistance, other.ID)}
				}
			}
		}
	}
	return nil
}

func (m *Map) validateRoads() error {
	for _, r := range m.Roads {
		from, ok := m.Location(r.From)
		if !ok {
			return &IntegrityError{Entity: "road", ID: r.ID, Reason: fmt.Sprintf("unknown location %q", r.From)}
		}
		to, ok := m.Location(r.To)
		if !ok {
			return &IntegrityError{Entity: "road", ID: r.ID, Reason: fmt.Sprintf("unknown location %q", r.To)}
		}
		if len(r.Waypoints) < 2 {
			return &IntegrityError{Entity: "road", ID: r.ID, Reason: "fewer than 2 waypoints"}
		}
		if r.Waypoints[0] != from.Position || r.Waypoints[len(r.Waypoints)-1] != to.Position {
			return &IntegrityError{Entity: "road", ID: r.ID, Reason: "waypoints do not match endpoint positions"}
		}
	}
	return nil
}

func (m *Map) validateForests() error {
	for _, f := range m.Forests {
		if _, ok := m.Province(f.ProvinceID); !ok {
			return &IntegrityError{Entity: "forest", ID: f.ID, Reason: fmt.Sprintf("unknown province %q", f.ProvinceID)}
		}
		if f.Density <= 0 || f.Density > 1 {
			return &IntegrityError{Entity: "forest", ID: f.ID, Reason: fmt.Sprintf("density %.3f outside (0,1]", f.Density)}
		}
		buffer := m.Params.Forest.BufferFor(f.ProvinceID)
		for _, pt := range f.Points {
			for _, l := range m.Locations {
				if pt.Distance(l.Position) < buffer-distanceSlack {
					return &IntegrityError{Entity: "forest", ID: f.ID, Reason: fmt.Sprintf("point %v within buffer of %s", pt, l.ID)}
				}
			}
			for _, r := range m.Roads {
				for _, w := range r.Waypoints {
					if pt.Distance(w) < buffer-distanceSlack {
						return &IntegrityError{Entity: "forest", ID: f.ID, Reason: fmt.Sprintf("point %v within buffer of road %s", pt, r.ID)}
					}
				}
			}
		}
	}
	return nil
}
