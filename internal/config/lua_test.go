package config

import (
	"image/color"
	"strings"
	"testing"
)

func parseConfig(t *testing.T, source string) *Config {
	t.Helper()
	p, err := NewLuaConfigParser()
	if err != nil {
		t.Fatalf("NewLuaConfigParser() error = %v", err)
	}
	t.Cleanup(func() { p.Close() })

	cfg, err := p.Parse([]byte(source))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return cfg
}

func TestParseEmptyConfigUsesDefaults(t *testing.T) {
	cfg := parseConfig(t, "")
	want := DefaultConfig()

	if cfg.Plot != want.Plot {
		t.Errorf("Plot = %+v, want defaults %+v", cfg.Plot, want.Plot)
	}
	if cfg.Window != want.Window {
		t.Errorf("Window = %+v, want defaults %+v", cfg.Window, want.Window)
	}
	if cfg.Colors != want.Colors {
		t.Errorf("Colors = %+v, want defaults %+v", cfg.Colors, want.Colors)
	}
}

func TestParseFullConfig(t *testing.T) {
	cfg := parseConfig(t, `
		view.config = {
			base_size = 20,
			grid_spacing = 0.5,
			major_interval = 4,
			step_size = 1,
			zoom_step = 0.8,
			scale = 2,
			center_x = 1.5,
			center_y = -2.5,

			window_width = 1024,
			window_height = 768,
			window_title = "my plots",
			always_on_top = true,
			skip_taskbar = true,

			watch = true,
			debounce_millis = 300,
			cpu_limit = 1000000,
			memory_limit = 10000000,

			background_color = "#202020",
			grid_minor_color = "#303030",
			grid_major_color = "#404040",
			axis_color = "white",
			label_color = "rgb(200, 200, 200)",
		}
	`)

	if cfg.Plot.BaseSize != 20 || cfg.Plot.GridSpacing != 0.5 || cfg.Plot.MajorInterval != 4 {
		t.Errorf("Plot grid settings = %+v", cfg.Plot)
	}
	if cfg.Plot.StepSize != 1 || cfg.Plot.ZoomStep != 0.8 {
		t.Errorf("Plot sampling settings = %+v", cfg.Plot)
	}
	if cfg.Plot.Scale != 2 || cfg.Plot.CenterX != 1.5 || cfg.Plot.CenterY != -2.5 {
		t.Errorf("Plot view settings = %+v", cfg.Plot)
	}
	if cfg.Window.Width != 1024 || cfg.Window.Height != 768 || cfg.Window.Title != "my plots" {
		t.Errorf("Window = %+v", cfg.Window)
	}
	if !cfg.Window.AlwaysOnTop || !cfg.Window.SkipTaskbar {
		t.Errorf("Window hints = %+v", cfg.Window)
	}
	if !cfg.Script.Watch || cfg.Script.DebounceMillis != 300 {
		t.Errorf("Script = %+v", cfg.Script)
	}
	if cfg.Script.CPULimit != 1_000_000 || cfg.Script.MemoryLimit != 10_000_000 {
		t.Errorf("Script limits = %+v", cfg.Script)
	}
	if cfg.Colors.Background != (color.RGBA{R: 32, G: 32, B: 32, A: 255}) {
		t.Errorf("Background = %v", cfg.Colors.Background)
	}
	if cfg.Colors.Axis != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("Axis = %v", cfg.Colors.Axis)
	}
	if cfg.Colors.Label != (color.RGBA{R: 200, G: 200, B: 200, A: 255}) {
		t.Errorf("Label = %v", cfg.Colors.Label)
	}
}

func TestParsePartialConfigKeepsOtherDefaults(t *testing.T) {
	cfg := parseConfig(t, `view.config = { grid_spacing = 1.0 }`)

	if cfg.Plot.GridSpacing != 1.0 {
		t.Errorf("GridSpacing = %v, want 1.0", cfg.Plot.GridSpacing)
	}
	if cfg.Plot.BaseSize != DefaultConfig().Plot.BaseSize {
		t.Errorf("BaseSize = %v, want default", cfg.Plot.BaseSize)
	}
}

func TestParseConfigCanCompute(t *testing.T) {
	// Configuration is a full Lua chunk; values can be computed.
	cfg := parseConfig(t, `
		local spacing = 1 / 4
		view.config = { grid_spacing = spacing, window_width = 256 * 3 }
	`)

	if cfg.Plot.GridSpacing != 0.25 {
		t.Errorf("GridSpacing = %v, want 0.25", cfg.Plot.GridSpacing)
	}
	if cfg.Window.Width != 768 {
		t.Errorf("Width = %v, want 768", cfg.Window.Width)
	}
}

func TestParseSyntaxErrorReported(t *testing.T) {
	p, err := NewLuaConfigParser()
	if err != nil {
		t.Fatalf("NewLuaConfigParser() error = %v", err)
	}
	defer p.Close()

	if _, err := p.Parse([]byte("view.config = {")); err == nil {
		t.Fatal("Parse() accepted invalid syntax")
	}
}

func TestParseInvalidColorReported(t *testing.T) {
	p, err := NewLuaConfigParser()
	if err != nil {
		t.Fatalf("NewLuaConfigParser() error = %v", err)
	}
	defer p.Close()

	_, err = p.Parse([]byte(`view.config = { axis_color = "no-such-color" }`))
	if err == nil || !strings.Contains(err.Error(), "axis_color") {
		t.Fatalf("Parse() error = %v, want invalid axis_color", err)
	}
}

func TestParseWrongTypesIgnored(t *testing.T) {
	cfg := parseConfig(t, `view.config = { base_size = "ten", watch = "yes" }`)

	if cfg.Plot.BaseSize != DefaultConfig().Plot.BaseSize {
		t.Errorf("BaseSize = %v, want default for a non-number", cfg.Plot.BaseSize)
	}
	if cfg.Script.Watch {
		t.Error("watch = true from a non-boolean value")
	}
}
