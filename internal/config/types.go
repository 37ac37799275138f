// Package config provides configuration parsing for plotview. Configuration
// files are Lua scripts assigning to the view.config table, so the viewer
// and its scripts share one language.
package config

import "image/color"

// Config represents the complete plotview configuration.
type Config struct {
	// Plot contains the coordinate system, grid and sampling settings.
	Plot PlotConfig
	// Window contains windowing options.
	Window WindowConfig
	// Script contains script loading and hot reload options.
	Script ScriptConfig
	// Colors contains the surface and grid palette.
	Colors ColorConfig
}

// PlotConfig holds the coordinate system, grid and sampling settings.
type PlotConfig struct {
	// BaseSize is the world-space span of the shorter surface dimension at
	// scale 1.0.
	BaseSize float64
	// GridSpacing is the minor gridline spacing in world units at scale 1.0.
	GridSpacing float64
	// MajorInterval is the number of minor gridlines per major gridline.
	MajorInterval int
	// StepSize is the function sampling step in view-space pixels.
	StepSize float64
	// ZoomStep is the zoom-out factor per wheel notch.
	ZoomStep float64
	// Scale is the initial zoom factor.
	Scale float64
	// CenterX, CenterY is the initial world-space view center.
	CenterX float64
	CenterY float64
}

// WindowConfig holds windowing options.
type WindowConfig struct {
	// Width and Height are the initial window size in pixels.
	Width  int
	Height int
	// Title is the window title.
	Title string
	// AlwaysOnTop keeps the plot window above normal windows.
	AlwaysOnTop bool
	// SkipTaskbar hides the window from taskbars and pagers.
	SkipTaskbar bool
}

// ScriptConfig holds script loading and sandboxing options.
type ScriptConfig struct {
	// Watch enables automatic reload when the script file changes.
	Watch bool
	// DebounceMillis is the quiet period after a file event before the
	// script is reloaded, absorbing editor write bursts.
	DebounceMillis int
	// CPULimit is the Lua instruction budget per redraw. 0 means the
	// runtime default.
	CPULimit uint64
	// MemoryLimit is the Lua allocation budget in bytes per redraw.
	// 0 means the runtime default.
	MemoryLimit uint64
}

// ColorConfig holds the surface and grid palette.
type ColorConfig struct {
	// Background fills the surface before each repaint.
	Background color.RGBA
	// GridMinor and GridMajor color the two gridline passes.
	GridMinor color.RGBA
	GridMajor color.RGBA
	// Axis colors the two axis lines.
	Axis color.RGBA
	// Label colors the axis number labels.
	Label color.RGBA
}
