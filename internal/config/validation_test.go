package config

import "testing"

func TestValidateDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero base size", func(c *Config) { c.Plot.BaseSize = 0 }},
		{"negative grid spacing", func(c *Config) { c.Plot.GridSpacing = -0.5 }},
		{"zero major interval", func(c *Config) { c.Plot.MajorInterval = 0 }},
		{"zero step size", func(c *Config) { c.Plot.StepSize = 0 }},
		{"zoom step too large", func(c *Config) { c.Plot.ZoomStep = 1 }},
		{"zoom step zero", func(c *Config) { c.Plot.ZoomStep = 0 }},
		{"negative scale", func(c *Config) { c.Plot.Scale = -1 }},
		{"zero window width", func(c *Config) { c.Window.Width = 0 }},
		{"zero window height", func(c *Config) { c.Window.Height = 0 }},
		{"negative debounce", func(c *Config) { c.Script.DebounceMillis = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
