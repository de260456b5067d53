package config

import "time"

// PacingPreset is a named assistant pacing offered by the init wizard.
type PacingPreset struct {
	Name   string
	Label  string
	Pacing float64
}

// PacingPresets lists the pacing choices in display order.
var PacingPresets = []PacingPreset{
	{Name: "demo", Label: "demo    - original presentation timings", Pacing: 1},
	{Name: "fast", Label: "fast    - quarter of the demo delays", Pacing: 0.25},
	{Name: "instant", Label: "instant - no artificial delay", Pacing: 0},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:            8080,
		DataDir:         ".opsdash",
		LogLevel:        LogInfo,
		LogFile:         "",
		AllowAllOrigins: false,
		SessionTTL:      30 * time.Minute,
		Assistant: AssistantConfig{
			Pacing:    1,
			Supersede: true,
		},
	}
}

// GetPacingPreset returns the preset with the given name.
// Returns the demo preset if the name is not found.
func GetPacingPreset(name string) PacingPreset {
	for _, p := range PacingPresets {
		if p.Name == name {
			return p
		}
	}
	return PacingPresets[0]
}
