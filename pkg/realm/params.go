package realm

// Params are the generation parameters of a map. They are stored with the
// map so a snapshot records how it was produced.
type Params struct {
	Seed                 int64        `yaml:"seed" json:"seed"`
	Width                float64      `yaml:"width" json:"width"`
	Height               float64      `yaml:"height" json:"height"`
	Provinces            int          `yaml:"provinces" json:"provinces"`
	LocationsPerProvince int          `yaml:"locations_per_province" json:"locations_per_province"`
	TotalLocations       int          `yaml:"total_locations" json:"total_locations"` // overrides LocationsPerProvince when > 0
	MinDistance          float64      `yaml:"min_distance" json:"min_distance"`
	PlacementAttempts    int          `yaml:"placement_attempts" json:"placement_attempts"`
	CrossingPenalty      float64      `yaml:"crossing_penalty" json:"crossing_penalty"`
	MaxRetries           int          `yaml:"max_retries" json:"max_retries"`
	JitterEpsilon        float64      `yaml:"jitter_epsilon" json:"jitter_epsilon"`
	Forest               ForestParams `yaml:"forest" json:"forest"`
}

// ForestParams control forest scattering.
type ForestParams struct {
	Buffer        float64                   `yaml:"buffer" json:"buffer"`
	Spacing       float64                   `yaml:"spacing" json:"spacing"`
	ClusterRadius float64                   `yaml:"cluster_radius" json:"cluster_radius"`
	Density       float64                   `yaml:"density" json:"density"`
	MaxAttempts   int                       `yaml:"max_attempts" json:"max_attempts"`
	Overrides     map[string]ForestOverride `yaml:"overrides" json:"overrides"` // keyed by province ID
}

// ForestOverride replaces the global density or buffer for one province.
// Nil fields keep the global value.
type ForestOverride struct {
	Density *float64 `yaml:"density" json:"density"`
	Buffer  *float64 `yaml:"buffer" json:"buffer"`
}

// DefaultParams returns the documented defaults.
func DefaultParams() Params {
	return Params{
		Seed:                 42,
		Width:                1000,
		Height:               1000,
		Provinces:            5,
		LocationsPerProvince: 4,
		MinDistance:          50,
		PlacementAttempts:    60,
		CrossingPenalty:      1.5,
		MaxRetries:           8,
		JitterEpsilon:        1e-6,
		Forest: ForestParams{
			Buffer:        20,
			Spacing:       18,
			ClusterRadius: 30,
			Density:       0.6,
			MaxAttempts:   30,
		},
	}
}

// Area returns the map area described by the parameters.
func (p Params) Area() Area {
	return Area{Width: p.Width, Height: p.Height}
}

// DensityFor returns the forest density for a province.
func (f ForestParams) DensityFor(provinceID string) float64 {
	if o, ok := f.Overrides[provinceID]; ok && o.Density != nil {
		return *o.Density
	}
	return f.Density
}

// BufferFor returns the forest clearance for a province.
func (f ForestParams) BufferFor(provinceID string) float64 {
	if o, ok := f.Overrides[provinceID]; ok && o.Buffer != nil {
		return *o.Buffer
	}
	return f.Buffer
}
