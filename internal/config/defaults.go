package config

import "image/color"

// Default values for configuration options.
const (
	// DefaultWidth and DefaultHeight are the default window size in pixels.
	DefaultWidth  = 800
	DefaultHeight = 600
	// DefaultTitle is the default window title.
	DefaultTitle = "plotview"
	// DefaultDebounceMillis is the default reload debounce quiet period.
	DefaultDebounceMillis = 150
)

// Default colors.
var (
	// DefaultBackground is the default surface background (white).
	DefaultBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	// DefaultGridMinor is the default minor gridline color.
	DefaultGridMinor = color.RGBA{R: 224, G: 224, B: 224, A: 255}
	// DefaultGridMajor is the default major gridline color.
	DefaultGridMajor = color.RGBA{R: 176, G: 176, B: 176, A: 255}
	// DefaultAxis is the default axis and label color.
	DefaultAxis = color.RGBA{R: 64, G: 64, B: 64, A: 255}
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Plot: PlotConfig{
			BaseSize:      10,
			GridSpacing:   0.2,
			MajorInterval: 5,
			StepSize:      2,
			ZoomStep:      0.9,
			Scale:         1,
		},
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
		},
		Script: ScriptConfig{
			DebounceMillis: DefaultDebounceMillis,
		},
		Colors: ColorConfig{
			Background: DefaultBackground,
			GridMinor:  DefaultGridMinor,
			GridMajor:  DefaultGridMajor,
			Axis:       DefaultAxis,
			Label:      DefaultAxis,
		},
	}
}
