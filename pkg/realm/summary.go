package realm

// KindCount is one line of the "locations in numbers" listing.
type KindCount struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary condenses a map for listings.
type Summary struct {
	ID           string      `json:"id"`
	Seed         int64       `json:"seed"`
	Width        float64     `json:"width"`
	Height       float64     `json:"height"`
	Provinces    int         `json:"provinces"`
	Locations    int         `json:"locations"`
	Roads        int         `json:"roads"`
	TradeRoutes  int         `json:"trade_routes"`
	RoadLength   float64     `json:"road_length"`
	Forests      int         `json:"forests"`
	ForestPoints int         `json:"forest_points"`
	Population   int         `json:"population"`
	Soldiers     int         `json:"soldiers"`
	Kinds        []KindCount `json:"kinds"`
}

// Summarize counts the map's entities. Kinds are listed in catalogue order
// and only when present; kinds outside the catalogue come last.
func (m *Map) Summarize() Summary {
	s := Summary{
		ID:           m.ID,
		Seed:         m.Seed,
		Width:        m.Area.Width,
		Height:       m.Area.Height,
		Provinces:    len(m.Provinces),
		Locations:    len(m.Locations),
		Roads:        len(m.Roads),
		Forests:      len(m.Forests),
		ForestPoints: m.ForestPoints(),
		Kinds:        []KindCount{},
	}
	for _, r := range m.Roads {
		s.RoadLength += r.Length
		if r.Class == RoadTradeRoute {
			s.TradeRoutes++
		}
	}
	for _, l := range m.Locations {
		s.Population += l.Population
		s.Soldiers += l.Soldiers
	}

	counts := m.KindCounts()
	for _, k := range kindOrder {
		if n := counts[k]; n > 0 {
			s.Kinds = append(s.Kinds, KindCount{Kind: k, Label: k.PluralLabel(n), Count: n})
			delete(counts, k)
		}
	}
	for _, l := range m.Locations {
		if n, ok := counts[l.Kind]; ok {
			s.Kinds = append(s.Kinds, KindCount{Kind: l.Kind, Label: l.Kind.PluralLabel(n), Count: n})
			delete(counts, l.Kind)
		}
	}
	return s
}
