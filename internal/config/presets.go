package config

import "sort"

var Presets = map[string]*Config{
	"exercise": {
		Growth: "exact", Factor: DefaultFactor, DataDir: DefaultDataDir, LogLevel: DefaultLogLevel,
		Check: CheckConfig{Runs: DefaultRuns, MaxOps: DefaultMaxOps},
		Plot:  PlotConfig{Pushes: 32, Height: 12, Width: 72},
	},
	"production": {
		Growth: "double", Factor: 2, DataDir: DefaultDataDir, LogLevel: DefaultLogLevel,
		Check: CheckConfig{Runs: 1000, MaxOps: 256},
		Plot:  PlotConfig{Pushes: 256, Height: 12, Width: 72},
	},
	"compact": {
		Growth: "geometric", Factor: 1.5, DataDir: DefaultDataDir, LogLevel: DefaultLogLevel,
		Check: CheckConfig{Runs: 500, MaxOps: 128},
		Plot:  PlotConfig{Pushes: 128, Height: 12, Width: 72},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
