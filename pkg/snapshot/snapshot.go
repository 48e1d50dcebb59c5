// Package snapshot encodes realm maps to a versioned JSON document and back.
// The document types are kept separate from the realm types so the stored
// format only changes when the schema version does.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/ChicagoDave/realmmap/pkg/geo"
	"github.com/ChicagoDave/realmmap/pkg/realm"
)

// SchemaVersion is the document version written by Encode.
const SchemaVersion = 1

// Key is the store key under which the current map is kept.
const Key = "realm/map"

// VersionError reports a document written with an unsupported schema.
type VersionError struct {
	Got int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("snapshot: unsupported schema_version %d (want %d)", e.Got, SchemaVersion)
}

type document struct {
	SchemaVersion int           `json:"schema_version"`
	ID            string        `json:"id"`
	Seed          int64         `json:"seed"`
	Area          areaDoc       `json:"area"`
	Provinces     []provinceDoc `json:"provinces"`
	Locations     []locationDoc `json:"locations"`
	Roads         []roadDoc     `json:"roads"`
	Forests       []forestDoc   `json:"forests"`
	Params        paramsDoc     `json:"params"`
}

type areaDoc struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type pointDoc [2]float64

type provinceDoc struct {
	ID        string     `json:"id"`
	Boundary  []pointDoc `json:"boundary"`
	Seed      pointDoc   `json:"seed"`
	Neighbors []string   `json:"neighbors"`
	Area      float64    `json:"area"`
	Owner     string     `json:"owner"`
}

type locationDoc struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Position   pointDoc `json:"position"`
	Kind       string   `json:"kind"`
	ProvinceID string   `json:"province_id"`
	Owner      string   `json:"owner"`
	Population int      `json:"population"`
	Soldiers   int      `json:"soldiers"`
}

type roadDoc struct {
	ID        string     `json:"id"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Waypoints []pointDoc `json:"waypoints"`
	Class     string     `json:"class"`
	Length    float64    `json:"length"`
}

type forestDoc struct {
	ID         string     `json:"id"`
	ProvinceID string     `json:"province_id"`
	Points     []pointDoc `json:"points"`
	Density    float64    `json:"density"`
}

type paramsDoc struct {
	Seed                 int64                        `json:"seed"`
	Width                float64                      `json:"width"`
	Height               float64                      `json:"height"`
	Provinces            int                          `json:"provinces"`
	LocationsPerProvince int                          `json:"locations_per_province"`
	TotalLocations       int                          `json:"total_locations"`
	MinDistance          float64                      `json:"min_distance"`
	PlacementAttempts    int                          `json:"placement_attempts"`
	CrossingPenalty      float64                      `json:"crossing_penalty"`
	MaxRetries           int                          `json:"max_retries"`
	JitterEpsilon        float64                      `json:"jitter_epsilon"`
	ForestBuffer         float64                      `json:"forest_buffer"`
	ForestSpacing        float64                      `json:"forest_spacing"`
	ForestClusterRadius  float64                      `json:"forest_cluster_radius"`
	ForestDensity        float64                      `json:"forest_density"`
	ForestMaxAttempts    int                          `json:"forest_max_attempts"`
	ForestOverrides      map[string]forestOverrideDoc `json:"forest_overrides"`
}

type forestOverrideDoc struct {
	Density *float64 `json:"density"`
	Buffer  *float64 `json:"buffer"`
}

// Encode serializes m as a schema_version 1 JSON document.
func Encode(m *realm.Map) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("snapshot: encoding nil map")
	}
	doc := document{
		SchemaVersion: SchemaVersion,
		ID:            m.ID,
		Seed:          m.Seed,
		Area:          areaDoc{Width: m.Area.Width, Height: m.Area.Height},
		Params:        fromParams(m.Params),
	}
	if m.Provinces != nil {
		doc.Provinces = make([]provinceDoc, len(m.Provinces))
		for i, p := range m.Provinces {
			doc.Provinces[i] = provinceDoc{
				ID:        p.ID,
				Boundary:  fromPoints(p.Boundary.Vertices),
				Seed:      fromPoint(p.Seed),
				Neighbors: p.Neighbors,
				Area:      p.Area,
				Owner:     p.Owner,
			}
		}
	}
	if m.Locations != nil {
		doc.Locations = make([]locationDoc, len(m.Locations))
		for i, l := range m.Locations {
			doc.Locations[i] = locationDoc{
				ID:         l.ID,
				Name:       l.Name,
				Position:   fromPoint(l.Position),
				Kind:       string(l.Kind),
				ProvinceID: l.ProvinceID,
				Owner:      l.Owner,
				Population: l.Population,
				Soldiers:   l.Soldiers,
			}
		}
	}
	if m.Roads != nil {
		doc.Roads = make([]roadDoc, len(m.Roads))
		for i, r := range m.Roads {
			doc.Roads[i] = roadDoc{
				ID:        r.ID,
				From:      r.From,
				To:        r.To,
				Waypoints: fromPoints(r.Waypoints),
				Class:     string(r.Class),
				Length:    r.Length,
			}
		}
	}
	if m.Forests != nil {
		doc.Forests = make([]forestDoc, len(m.Forests))
		for i, f := range m.Forests {
			doc.Forests[i] = forestDoc{
				ID:         f.ID,
				ProvinceID: f.ProvinceID,
				Points:     fromPoints(f.Points),
				Density:    f.Density,
			}
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encoding map %s: %w", m.ID, err)
	}
	return data, nil
}

// Decode parses a snapshot document. Decode(Encode(m)) equals m.
func Decode(data []byte) (*realm.Map, error) {
	var head struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("snapshot: reading header: %w", err)
	}
	if head.SchemaVersion != SchemaVersion {
		return nil, &VersionError{Got: head.SchemaVersion}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("snapshot: decoding document: %w", err)
	}

	m := &realm.Map{
		ID:     doc.ID,
		Seed:   doc.Seed,
		Area:   realm.Area{Width: doc.Area.Width, Height: doc.Area.Height},
		Params: toParams(doc.Params),
	}
	if doc.Provinces != nil {
		m.Provinces = make([]realm.Province, len(doc.Provinces))
		for i, p := range doc.Provinces {
			m.Provinces[i] = realm.Province{
				ID:        p.ID,
				Boundary:  geo.Polygon{Vertices: toPoints(p.Boundary)},
				Seed:      toPoint(p.Seed),
				Neighbors: p.Neighbors,
				Area:      p.Area,
				Owner:     p.Owner,
			}
		}
	}
	if doc.Locations != nil {
		m.Locations = make([]realm.Location, len(doc.Locations))
		for i, l := range doc.Locations {
			m.Locations[i] = realm.Location{
				ID:         l.ID,
				Name:       l.Name,
				Position:   toPoint(l.Position),
				Kind:       realm.Kind(l.Kind),
				ProvinceID: l.ProvinceID,
				Owner:      l.Owner,
				Population: l.Population,
				Soldiers:   l.Soldiers,
			}
		}
	}
	if doc.Roads != nil {
		m.Roads = make([]realm.Road, len(doc.Roads))
		for i, r := range doc.Roads {
			m.Roads[i] = realm.Road{
				ID:        r.ID,
				From:      r.From,
				To:        r.To,
				Waypoints: toPoints(r.Waypoints),
				Class:     realm.RoadClass(r.Class),
				Length:    r.Length,
			}
		}
	}
	if doc.Forests != nil {
		m.Forests = make([]realm.ForestRegion, len(doc.Forests))
		for i, f := range doc.Forests {
			m.Forests[i] = realm.ForestRegion{
				ID:         f.ID,
				ProvinceID: f.ProvinceID,
				Points:     toPoints(f.Points),
				Density:    f.Density,
			}
		}
	}
	return m, nil
}

func fromParams(p realm.Params) paramsDoc {
	d := paramsDoc{
		Seed:                 p.Seed,
		Width:                p.Width,
		Height:               p.Height,
		Provinces:            p.Provinces,
		LocationsPerProvince: p.LocationsPerProvince,
		TotalLocations:       p.TotalLocations,
		MinDistance:          p.MinDistance,
		PlacementAttempts:    p.PlacementAttempts,
		CrossingPenalty:      p.CrossingPenalty,
		MaxRetries:           p.MaxRetries,
		JitterEpsilon:        p.JitterEpsilon,
		ForestBuffer:         p.Forest.Buffer,
		ForestSpacing:        p.Forest.Spacing,
		ForestClusterRadius:  p.Forest.ClusterRadius,
		ForestDensity:        p.Forest.Density,
		ForestMaxAttempts:    p.Forest.MaxAttempts,
	}
	if p.Forest.Overrides != nil {
		d.ForestOverrides = make(map[string]forestOverrideDoc, len(p.Forest.Overrides))
		for id, o := range p.Forest.Overrides {
			d.ForestOverrides[id] = forestOverrideDoc{Density: o.Density, Buffer: o.Buffer}
		}
	}
	return d
}

func toParams(d paramsDoc) realm.Params {
	p := realm.Params{
		Seed:                 d.Seed,
		Width:                d.Width,
		Height:               d.Height,
		Provinces:            d.Provinces,
		LocationsPerProvince: d.LocationsPerProvince,
		TotalLocations:       d.TotalLocations,
		MinDistance:          d.MinDistance,
		PlacementAttempts:    d.PlacementAttempts,
		CrossingPenalty:      d.CrossingPenalty,
		MaxRetries:           d.MaxRetries,
		JitterEpsilon:        d.JitterEpsilon,
		Forest: realm.ForestParams{
			Buffer:        d.ForestBuffer,
			Spacing:       d.ForestSpacing,
			ClusterRadius: d.ForestClusterRadius,
			Density:       d.ForestDensity,
			MaxAttempts:   d.ForestMaxAttempts,
		},
	}
	if d.ForestOverrides != nil {
		p.Forest.Overrides = make(map[string]realm.ForestOverride, len(d.ForestOverrides))
		for id, o := range d.ForestOverrides {
			p.Forest.Overrides[id] = realm.ForestOverride{Density: o.Density, Buffer: o.Buffer}
		}
	}
	return p
}

func fromPoint(p geo.Point2D) pointDoc {
	return pointDoc{p.X, p.Y}
}

func toPoint(d pointDoc) geo.Point2D {
	return geo.Pt(d[0], d[1])
}

func fromPoints(pts []geo.Point2D) []pointDoc {
	if pts == nil {
		return nil
	}
	out := make([]pointDoc, len(pts))
	for i, p := range pts {
		out[i] = fromPoint(p)
	}
	return out
}

func toPoints(ds []pointDoc) []geo.Point2D {
	if ds == nil {
		return nil
	}
	out := make([]geo.Point2D, len(ds))
	for i, d := range ds {
		out[i] = toPoint(d)
	}
	return out
}
