package plot

import "fmt"

// Defaults for session options.
const (
	DefaultBaseSize      = 10.0
	DefaultGridSpacing   = 0.2
	DefaultMajorInterval = 5
	DefaultStepSize      = 2.0
	DefaultZoomStep      = 0.9
)

// Options configures a Session.
type Options struct {
	// BaseSize is the world-space span visible along the shorter surface
	// dimension at scale 1.0. Default 10.
	BaseSize float64
	// GridSpacing is the minor gridline spacing in world units at scale
	// 1.0. Default 0.2.
	GridSpacing float64
	// MajorInterval is the number of minor gridlines per major gridline.
	// Default 5.
	MajorInterval int
	// StepSize is the function sampling step in view-space pixels.
	// Default 2.
	StepSize float64
	// Scale is the initial zoom factor. Default 1.0.
	Scale float64
	// Center is the initial world-space view center. Default origin.
	Center Point
	// Format renders axis label values. Nil means FormatNumber.
	Format NumberFormatter
	// ZoomStep is the multiplicative factor applied per wheel notch when
	// zooming out; zooming in uses its reciprocal. Default 0.9.
	ZoomStep float64
	// Style holds grid colors and stroke widths. Zero value means
	// DefaultGridStyle.
	Style GridStyle
}

// DefaultOptions returns Options with all defaults applied.
func DefaultOptions() Options {
	return Options{
		BaseSize:      DefaultBaseSize,
		GridSpacing:   DefaultGridSpacing,
		MajorInterval: DefaultMajorInterval,
		StepSize:      DefaultStepSize,
		Scale:         1.0,
		Format:        FormatNumber,
		ZoomStep:      DefaultZoomStep,
		Style:         DefaultGridStyle(),
	}
}

// Validate reports the first invalid option value, if any.
func (o Options) Validate() error {
	if o.BaseSize <= 0 {
		return fmt.Errorf("base size must be positive, got %v", o.BaseSize)
	}
	if o.GridSpacing <= 0 {
		return fmt.Errorf("grid spacing must be positive, got %v", o.GridSpacing)
	}
	if o.MajorInterval < 1 {
		return fmt.Errorf("major interval must be at least 1, got %d", o.MajorInterval)
	}
	if o.StepSize <= 0 {
		return fmt.Errorf("step size must be positive, got %v", o.StepSize)
	}
	if o.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", o.Scale)
	}
	if o.ZoomStep <= 0 || o.ZoomStep >= 1 {
		return fmt.Errorf("zoom step must be in (0, 1), got %v", o.ZoomStep)
	}
	return nil
}

// withDefaults fills unset fields with their default values.
func (o Options) withDefaults() Options {
	if o.BaseSize == 0 {
		o.BaseSize = DefaultBaseSize
	}
	if o.GridSpacing == 0 {
		o.GridSpacing = DefaultGridSpacing
	}
	if o.MajorInterval == 0 {
		o.MajorInterval = DefaultMajorInterval
	}
	if o.StepSize == 0 {
		o.StepSize = DefaultStepSize
	}
	if o.Scale == 0 {
		o.Scale = 1.0
	}
	if o.Format == nil {
		o.Format = FormatNumber
	}
	if o.ZoomStep == 0 {
		o.ZoomStep = DefaultZoomStep
	}
	if o.Style == (GridStyle{}) {
		o.Style = DefaultGridStyle()
	}
	return o
}
