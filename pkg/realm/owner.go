package realm

import "fmt"

// WithLocationOwner returns a copy of the map in which the given location is
// held by lordID. Geometry is shared with the original, which is unchanged.
// An empty lordID clears the owner.
func (m *Map) WithLocationOwner(locationID, lordID string) (*Map, error) {
	idx := -1
	for i, l := range m.Locations {
		if l.ID == locationID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("setting owner: unknown location %q", locationID)
	}
	next := *m
	next.Locations = make([]Location, len(m.Locations))
	copy(next.Locations, m.Locations)
	next.Locations[idx].Owner = lordID
	return &next, nil
}

// WithProvinceOwner returns a copy of the map in which the given province is
// held by lordID.
func (m *Map) WithProvinceOwner(provinceID, lordID string) (*Map, error) {
	idx := -1
	for i, p := range m.Provinces {
		if p.ID == provinceID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("setting owner: unknown province %q", provinceID)
	}
	next := *m
	next.Provinces = make([]Province, len(m.Provinces))
	copy(next.Provinces, m.Provinces)
	next.Provinces[idx].Owner = lordID
	return &next, nil
}
