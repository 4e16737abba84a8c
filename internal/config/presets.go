package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/swingby/internal/dynamo"
)

var Presets = map[string]map[string]*Config{
	"jupiter": {
		"flyby": DefaultConfig(),
		"close": {
			Name: "close", Body: "jupiter", G: dynamo.GravitationalConstant,
			DurationDays: 36, DtHours: 0.5,
			Primary: PrimaryConfig{X: 20.18e9, VX: -13e3},
			Probe:   ProbeConfig{Mass: 825, XGm: 10, YGm: 0.3},
		},
		"launch": {
			Name: "launch", Body: "jupiter", G: dynamo.GravitationalConstant,
			DurationDays: 36, DtHours: 0.5,
			Primary: PrimaryConfig{X: 20.18e9, VX: -13e3},
			Probe:   ProbeConfig{Mass: 825, XGm: 0, YGm: -3, SpeedKms: 10, AngleDeg: 20},
		},
		"fine": {
			Name: "fine", Body: "jupiter", G: dynamo.GravitationalConstant,
			DurationDays: 36, DtHours: 0.05,
			Primary: PrimaryConfig{X: 20.18e9, VX: -13e3},
			Probe:   ProbeConfig{Mass: 825, XGm: 10, YGm: 1},
		},
		"impact": {
			Name: "impact", Body: "jupiter", G: dynamo.GravitationalConstant,
			DurationDays: 36, DtHours: 0.5,
			Primary: PrimaryConfig{X: 20.18e9, VX: -13e3},
			Probe:   ProbeConfig{Mass: 825, XGm: 20.1},
		},
	},
	"saturn": {
		"flyby": {
			Name: "flyby", Body: "saturn", G: dynamo.GravitationalConstant,
			DurationDays: 40, DtHours: 0.5,
			Primary: PrimaryConfig{X: 20e9, VX: -9.7e3},
			Probe:   ProbeConfig{Mass: 722, XGm: 10, YGm: 0.5},
		},
	},
	"earth": {
		"flyby": {
			Name: "flyby", Body: "earth", G: dynamo.GravitationalConstant,
			DurationDays: 4, DtHours: 0.05,
			Primary: PrimaryConfig{X: 1e9, VX: -29.8e3},
			Probe:   ProbeConfig{Mass: 722, XGm: 0, YGm: 0.02},
		},
	},
}

func GetPreset(body, preset string) *Config {
	bodyPresets, ok := Presets[body]
	if !ok {
		return nil
	}
	cfg, ok := bodyPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

// Preset returns a copy of a preset so callers may modify it.
func Preset(body, preset string) (*Config, error) {
	cfg := GetPreset(body, preset)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s/%s (available: %v)", dynamo.ErrUnknownPreset, body, preset, ListPresets(body))
	}
	c := *cfg
	return &c, nil
}

func ListPresets(body string) []string {
	bodyPresets, ok := Presets[body]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(bodyPresets))
	for name := range bodyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
