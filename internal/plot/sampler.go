package plot

import (
	"image/color"
	"math"
)

// PlotFunc is a user function mapping a world-space X to a world-space Y.
// An error aborts the whole plot pass; sampling is not fault-isolated per
// point.
type PlotFunc func(x float64) (float64, error)

// ArgKind discriminates the variants a plot() argument can take.
type ArgKind int

const (
	// ArgFunc is the function to sample. A plot call without one is a no-op.
	ArgFunc ArgKind = iota
	// ArgColor is the stroke color.
	ArgColor
	// ArgWidth is the stroke width in pixels.
	ArgWidth
	// ArgDash is the dash pattern in pixels; empty means solid.
	ArgDash
)

// Arg is one argument to the plot primitive. Arguments are unordered and
// resolved by kind; when a kind appears more than once the last occurrence
// wins.
type Arg struct {
	Kind  ArgKind
	Func  PlotFunc
	Color color.RGBA
	Width float64
	Dash  []float64
}

// FuncArg wraps a sample function as a plot argument.
func FuncArg(f PlotFunc) Arg { return Arg{Kind: ArgFunc, Func: f} }

// ColorArg wraps a stroke color as a plot argument.
func ColorArg(c color.RGBA) Arg { return Arg{Kind: ArgColor, Color: c} }

// WidthArg wraps a stroke width as a plot argument.
func WidthArg(w float64) Arg { return Arg{Kind: ArgWidth, Width: w} }

// DashArg wraps a dash pattern as a plot argument.
func DashArg(d []float64) Arg { return Arg{Kind: ArgDash, Dash: d} }

// DefaultStrokeColor is the stroke color used when a plot call supplies
// none ("blue").
var DefaultStrokeColor = color.RGBA{B: 255, A: 255}

// DefaultStrokeWidth is the stroke width used when a plot call supplies none.
const DefaultStrokeWidth = 1.0

// Sampler renders user functions as polylines. It walks view-space X in
// fixed pixel steps, maps each step to world space, evaluates the function,
// and maps the result back.
type Sampler struct {
	// StepSize is the view-space sampling step in pixels.
	StepSize float64
}

// NewSampler returns a Sampler with the given step size in pixels.
func NewSampler(stepSize float64) *Sampler {
	return &Sampler{StepSize: stepSize}
}

// Plot resolves args and strokes the sampled polyline onto c. Calls without
// a function argument do nothing. The first error from the user function is
// returned and aborts the pass; whatever was sampled before the error is
// not stroked.
func (s *Sampler) Plot(c Canvas, t Transform, args []Arg) error {
	var fn PlotFunc
	style := StrokeStyle{Color: DefaultStrokeColor, Width: DefaultStrokeWidth}

	for _, a := range args {
		switch a.Kind {
		case ArgFunc:
			fn = a.Func
		case ArgColor:
			style.Color = a.Color
		case ArgWidth:
			style.Width = a.Width
		case ArgDash:
			style.Dash = a.Dash
		}
	}
	if fn == nil {
		return nil
	}

	geom := t.Geometry()
	w := float64(geom.Width)
	h := float64(geom.Height)

	points := make([]Point, 0, int(w/s.StepSize)+2)
	for vx := 0.0; vx <= w; vx += s.StepSize {
		wy, err := fn(t.ViewToWorldX(vx))
		if err != nil {
			return err
		}
		points = append(points, Point{X: vx, Y: clampViewY(t.WorldToViewY(wy), h)})
	}

	c.Polyline(points, style)
	return nil
}

// clampViewY bounds a sampled view-space Y to one pixel beyond the surface.
// Values near a vertical asymptote would otherwise produce path coordinates
// of unbounded magnitude. Non-finite values clamp the same way, so a NaN or
// Inf sample becomes a visible clipped segment rather than a broken path.
func clampViewY(vy, height float64) float64 {
	if math.IsNaN(vy) {
		return height + 1
	}
	if vy < -1 {
		return -1
	}
	if vy > height+1 {
		return height + 1
	}
	return vy
}
