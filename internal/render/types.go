// Package render hosts the Ebiten-based presentation layer: the offscreen
// plot surface, text rendering, pointer input polling, and the game loop
// that ties them to a plot session.
package render

import (
	"fmt"
	"image/color"
)

// Config holds the windowing and presentation options.
type Config struct {
	// Width and Height are the initial window size in pixels.
	Width  int
	Height int
	// Title is the window title.
	Title string
	// BackgroundColor fills the surface before each repaint.
	BackgroundColor color.RGBA
	// AlwaysOnTop keeps the plot window above normal windows (X11 EWMH).
	AlwaysOnTop bool
	// SkipTaskbar hides the window from taskbars and pagers (X11 EWMH).
	SkipTaskbar bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Width:           800,
		Height:          600,
		Title:           "plotview",
		BackgroundColor: color.RGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", c.Height)
	}
	return nil
}
