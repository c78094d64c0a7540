package config

import "sort"

// Presets are named scale and theme pairs.
var Presets = map[string]*Config{
	"glance": {Scale: "m", Theme: "mono"},
	"weeks":  {Scale: "w", Theme: "classic"},
	"days":   {Scale: "d", Theme: "ocean"},
	"dusk":   {Scale: "w", Theme: "sunset"},
}

// GetPreset returns nil for unknown names.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset copies the preset's scale and theme onto c.
func (c *Config) ApplyPreset(name string) bool {
	p := GetPreset(name)
	if p == nil {
		return false
	}
	c.Scale = p.Scale
	c.Theme = p.Theme
	return true
}
