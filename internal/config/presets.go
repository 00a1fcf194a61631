package config

import "sort"

// legacyRows is the first nostril placement; it put some particles outside
// the fastest nose velocity.
var legacyRows = [3][4]float64{
	{0.948, 0.000, -0.319, 0.007},
	{0.000, 1.000, 0.000, -0.00875},
	{0.319, 0.000, 0.948, 1.7122},
}

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"legacy": func() *Config {
		cfg := DefaultConfig()
		cfg.Nostril.Radius = 0.00375
		cfg.Nostril.Left = legacyRows
		cfg.Nostril.Right = legacyRows
		return cfg
	},
	"short": func() *Config {
		cfg := DefaultConfig()
		cfg.Timing.RunMs = 10000
		return cfg
	},
	"compact": func() *Config {
		cfg := DefaultConfig()
		cfg.Output.Schema = "compact"
		cfg.Output.Header = false
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
