// Package plot implements the viewport engine for interactive 2D function
// plotting: the world/view coordinate transform, the adaptive grid renderer,
// the function sampler behind the plot() primitive, the pan/zoom interaction
// state machine, and the session that orchestrates redraws and live code
// updates.
//
// The package is independent of any concrete drawing backend. Rendering goes
// through the Canvas interface; the Ebiten-backed implementation lives in
// internal/render. Compilation of user code is likewise injected through the
// Compiler interface (implemented by internal/lua).
package plot

import "image/color"

// Point is a position in either world or view space, depending on context.
type Point struct {
	X float64
	Y float64
}

// StrokeStyle describes how a line or polyline is stroked.
type StrokeStyle struct {
	// Color is the stroke color.
	Color color.RGBA
	// Width is the stroke width in pixels.
	Width float64
	// Dash is the dash pattern as alternating on/off lengths in pixels.
	// Empty means a solid stroke.
	Dash []float64
}

// Canvas is the minimal drawing surface the viewport renders onto.
// Coordinates are view-space pixels with the origin at the top-left and Y
// growing downward. Implementations are not required to be safe for
// concurrent use; the session serializes all drawing.
type Canvas interface {
	// Size returns the current surface dimensions in pixels. It is consulted
	// fresh on every redraw because the host may resize the surface between
	// frames.
	Size() (width, height int)

	// Clear repaints the whole surface with its background. Every redraw
	// starts from a cleared surface; there is no incremental drawing.
	Clear()

	// Line strokes a single line segment.
	Line(x1, y1, x2, y2 float64, style StrokeStyle)

	// Polyline strokes a connected sequence of points as one path.
	Polyline(points []Point, style StrokeStyle)

	// Label draws a short text string with an opaque backing outline so it
	// stays legible on top of gridlines.
	Label(text string, x, y float64, fill color.RGBA)
}

// NumberFormatter converts a world-space axis value to its label text.
type NumberFormatter func(value float64) string

// PlotPrimitive is the drawing capability handed to user programs for the
// duration of a redraw. Arguments are order-independent and resolved by
// kind; see Arg.
type PlotPrimitive func(args ...Arg) error

// Program is a compiled user program. Running it draws the user's plots by
// calling back into the supplied primitive. Programs are immutable; a new
// source is always compiled into a new Program.
type Program interface {
	Run(plot PlotPrimitive) error
}

// Compiler turns user source code into a runnable Program. Compilation
// failures are reported as errors; they must not panic.
type Compiler interface {
	Compile(name, source string) (Program, error)
}

// EventSink receives change notifications from the session and controller.
// PlotChanged fires once per incremental view change during an active drag
// and on wheel zoom; PlotSettled fires once a gesture or an update has fully
// completed. Both are invoked synchronously on the event-handling goroutine.
type EventSink interface {
	PlotChanged()
	PlotSettled()
}

// nopSink is used when no event sink is configured.
type nopSink struct{}

func (nopSink) PlotChanged() {}
func (nopSink) PlotSettled() {}
