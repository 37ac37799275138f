package plot

import "fmt"

// Session owns the view state and the last-known-good user program and
// orchestrates redraws. It is the single entry point both the interaction
// controller and the public update surface go through.
//
// A Session is not safe for concurrent use; callers serialize access (the
// render loop and the public facade share one mutex).
type Session struct {
	canvas   Canvas
	compiler Compiler
	opts     Options

	view    ViewState
	grid    *GridRenderer
	sampler *Sampler
	sink    EventSink

	// program is the last successfully compiled and drawn user program.
	// It is only ever swapped, never mutated.
	program Program
	// updates counts adopted programs, used to name compiled chunks.
	updates int

	// onError receives failures from interaction-triggered redraws, which
	// have no caller to return an error to. The last-known-good program
	// already proved itself once, so these are not expected in normal
	// operation.
	onError func(error)
}

// NewSession creates a Session drawing onto canvas and compiling user code
// with compiler. Invalid options are reported rather than silently fixed.
func NewSession(canvas Canvas, compiler Compiler, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plot options: %w", err)
	}

	grid := NewGridRenderer(opts.GridSpacing, opts.MajorInterval)
	grid.Format = opts.Format
	grid.Style = opts.Style

	return &Session{
		canvas:   canvas,
		compiler: compiler,
		opts:     opts,
		view:     ViewState{Scale: opts.Scale, Center: opts.Center},
		grid:     grid,
		sampler:  NewSampler(opts.StepSize),
		sink:     nopSink{},
	}, nil
}

// SetEventSink registers the notification sink. A nil sink disables
// notifications.
func (s *Session) SetEventSink(sink EventSink) {
	if sink == nil {
		sink = nopSink{}
	}
	s.sink = sink
}

// Scale returns the current zoom factor.
func (s *Session) Scale() float64 { return s.view.Scale }

// SetScale sets the zoom factor. It does not trigger a redraw; the next
// redraw picks up the new value. Non-positive values are ignored.
func (s *Session) SetScale(v float64) {
	if v > 0 {
		s.view.Scale = v
	}
}

// Center returns the current world-space view center.
func (s *Session) Center() Point { return s.view.Center }

// SetCenter sets the world-space view center. It does not trigger a redraw.
func (s *Session) SetCenter(x, y float64) {
	s.view.Center = Point{X: x, Y: y}
}

// Transform returns the transform for the current view state and surface
// geometry. The controller uses it to convert device deltas and wheel
// anchors to world space.
func (s *Session) Transform() Transform {
	w, h := s.canvas.Size()
	return NewTransform(Geometry{Width: w, Height: h}, s.view, s.opts.BaseSize)
}

// redraw repaints the surface from scratch: resync geometry, clear, grid,
// then the active program with the sampler bound as its plot capability.
// Program failures come back as *RuntimeError; they never escape as panics.
func (s *Session) redraw() error {
	w, h := s.canvas.Size()
	s.canvas.Clear()

	t := NewTransform(Geometry{Width: w, Height: h}, s.view, s.opts.BaseSize)
	s.grid.Draw(s.canvas, t)

	if s.program == nil {
		return nil
	}

	primitive := func(args ...Arg) error {
		return s.sampler.Plot(s.canvas, t, args)
	}
	if err := s.program.Run(primitive); err != nil {
		return &RuntimeError{Err: err}
	}
	return nil
}

// Redraw repaints with the last-known-good program and emits a settled
// notification. It is the no-source flavor of Update.
func (s *Session) Redraw() error {
	defer s.sink.PlotSettled()
	return s.redraw()
}

// Update compiles source and attempts a redraw with the candidate program.
// On success the candidate becomes the last-known-good program. On any
// failure, compile or runtime, the candidate is discarded and the surface
// is repainted from the previous program so a broken frame is never left
// visible. A settled notification is emitted in all cases.
func (s *Session) Update(source string) error {
	defer s.sink.PlotSettled()

	name := fmt.Sprintf("plot-%d", s.updates+1)
	candidate, err := s.compiler.Compile(name, source)
	if err != nil {
		cerr := &CompileError{Name: name, Err: err}
		s.redraw() // repaint from the last good program
		return cerr
	}

	previous := s.program
	s.program = candidate
	if err := s.redraw(); err != nil {
		s.program = previous
		s.redraw()
		return err
	}

	s.updates++
	return nil
}

// HasProgram reports whether a user program has been adopted.
func (s *Session) HasProgram() bool { return s.program != nil }

// SetErrorHandler registers a callback for redraw failures triggered by
// pan/zoom interaction, which have no caller to return an error to.
func (s *Session) SetErrorHandler(handler func(error)) {
	s.onError = handler
}

// redrawView is the controller's redraw entry point. Errors are routed to
// the error handler instead of breaking the gesture in progress.
func (s *Session) redrawView() {
	if err := s.redraw(); err != nil && s.onError != nil {
		s.onError(err)
	}
}

// notifyChanged and notifySettled are the controller's notification
// entry points.
func (s *Session) notifyChanged() { s.sink.PlotChanged() }
func (s *Session) notifySettled() { s.sink.PlotSettled() }
