package domain

// MetricConfig is the immutable display metadata for one metric type.
type MetricConfig struct {
	Key   MetricTypeKey `json:"key"`
	Name  string        `json:"name"`
	Unit  string        `json:"unit"`
	Icon  string        `json:"icon"`
	Color string        `json:"color"`
}

// Catalog is the fixed, ordered set of supported metric types.
type Catalog struct {
	configs []MetricConfig
	index   map[MetricTypeKey]int
}

// DefaultCatalog returns the catalog of every metric the application tracks.
func DefaultCatalog() *Catalog {
	return NewCatalog([]MetricConfig{
		{Key: "weight", Name: "Weight", Unit: "kg", Icon: "scale", Color: "#4F46E5"},
		{Key: "chest", Name: "Chest", Unit: "cm", Icon: "ruler", Color: "#0EA5E9"},
		{Key: "waist", Name: "Waist", Unit: "cm", Icon: "ruler", Color: "#14B8A6"},
		{Key: "hips", Name: "Hips", Unit: "cm", Icon: "ruler", Color: "#22C55E"},
		{Key: "biceps", Name: "Biceps", Unit: "cm", Icon: "arm", Color: "#84CC16"},
		{Key: "thighs", Name: "Thighs", Unit: "cm", Icon: "ruler", Color: "#EAB308"},
		{Key: "neck", Name: "Neck", Unit: "cm", Icon: "ruler", Color: "#F59E0B"},
		{Key: "bodyFat", Name: "Body Fat", Unit: "%", Icon: "percent", Color: "#F97316"},
		{Key: "muscleMass", Name: "Muscle Mass", Unit: "kg", Icon: "dumbbell", Color: "#EF4444"},
		{Key: "waterIntake", Name: "Water Intake", Unit: "L", Icon: "droplet", Color: "#3B82F6"},
		{Key: "steps", Name: "Steps", Unit: "steps", Icon: "footprints", Color: "#8B5CF6"},
		{Key: "sleep", Name: "Sleep", Unit: "h", Icon: "moon", Color: "#6366F1"},
		{Key: "restingHeartRate", Name: "Resting Heart Rate", Unit: "bpm", Icon: "heart", Color: "#EC4899"},
	})
}

// NewCatalog builds a catalog from configs, keeping their order. Later
// duplicates of a key are ignored.
func NewCatalog(configs []MetricConfig) *Catalog {
	c := &Catalog{
		configs: make([]MetricConfig, 0, len(configs)),
		index:   make(map[MetricTypeKey]int, len(configs)),
	}
	for _, cfg := range configs {
		if _, dup := c.index[cfg.Key]; dup {
			continue
		}
		c.index[cfg.Key] = len(c.configs)
		c.configs = append(c.configs, cfg)
	}
	return c
}

// List returns a copy of the catalog in display order.
func (c *Catalog) List() []MetricConfig {
	out := make([]MetricConfig, len(c.configs))
	copy(out, c.configs)
	return out
}

// Lookup returns the config for key.
func (c *Catalog) Lookup(key MetricTypeKey) (MetricConfig, bool) {
	i, ok := c.index[key]
	if !ok {
		return MetricConfig{}, false
	}
	return c.configs[i], true
}

// Has reports whether key is a known metric type.
func (c *Catalog) Has(key MetricTypeKey) bool {
	_, ok := c.index[key]
	return ok
}
