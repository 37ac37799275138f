package config

import "fmt"

// Validate checks the configuration for invalid values. It returns the
// first problem found.
func (c *Config) Validate() error {
	if c.Plot.BaseSize <= 0 {
		return fmt.Errorf("base_size must be positive, got %v", c.Plot.BaseSize)
	}
	if c.Plot.GridSpacing <= 0 {
		return fmt.Errorf("grid_spacing must be positive, got %v", c.Plot.GridSpacing)
	}
	if c.Plot.MajorInterval < 1 {
		return fmt.Errorf("major_interval must be at least 1, got %d", c.Plot.MajorInterval)
	}
	if c.Plot.StepSize <= 0 {
		return fmt.Errorf("step_size must be positive, got %v", c.Plot.StepSize)
	}
	if c.Plot.ZoomStep <= 0 || c.Plot.ZoomStep >= 1 {
		return fmt.Errorf("zoom_step must be between 0 and 1 exclusive, got %v", c.Plot.ZoomStep)
	}
	if c.Plot.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", c.Plot.Scale)
	}
	if c.Window.Width <= 0 {
		return fmt.Errorf("window_width must be positive, got %d", c.Window.Width)
	}
	if c.Window.Height <= 0 {
		return fmt.Errorf("window_height must be positive, got %d", c.Window.Height)
	}
	if c.Script.DebounceMillis < 0 {
		return fmt.Errorf("debounce_millis must not be negative, got %d", c.Script.DebounceMillis)
	}
	return nil
}
