package plot

// PointerState is one per-tick snapshot of the host's pointer and wheel
// input. The render loop reads it from the windowing backend and feeds it
// to the controller; tests construct it directly.
type PointerState struct {
	// X, Y is the pointer position in device (view-space) pixels.
	X float64
	Y float64
	// Pressed reports whether the primary button is held.
	Pressed bool
	// JustPressed reports a press edge this tick.
	JustPressed bool
	// Wheel is the vertical wheel movement this tick; positive is toward
	// the screen (zoom in), negative away (zoom out).
	Wheel float64
	// Over reports whether the pointer is over the plot surface. Only
	// press edges and wheel movement require it; an active drag keeps
	// receiving moves and the release wherever the pointer is.
	Over bool
}

// viewSession is the session surface the controller drives. *Session
// satisfies it; controller tests substitute a recording fake.
type viewSession interface {
	Transform() Transform
	Scale() float64
	SetScale(float64)
	Center() Point
	SetCenter(x, y float64)
	redrawView()
	notifyChanged()
	notifySettled()
}

// Controller is the pan/zoom interaction state machine. It owns no view
// state of its own; it mutates the session's ViewState and triggers
// redraws and change notifications.
//
// States are Idle and Panning. A press edge over the surface enters
// Panning; moves while Panning pan the view; release returns to Idle.
// Wheel zoom is handled from Idle only and is atomic: it emits both a
// change and a settled notification in one tick.
type Controller struct {
	session viewSession

	panning bool
	lastX   float64
	lastY   float64

	zoomStep float64
}

// NewController returns a Controller driving session. zoomStep is the
// multiplicative zoom-out factor per wheel notch (its reciprocal zooms
// in); values outside (0, 1) fall back to the default.
func NewController(session *Session, zoomStep float64) *Controller {
	return newController(session, zoomStep)
}

func newController(session viewSession, zoomStep float64) *Controller {
	if zoomStep <= 0 || zoomStep >= 1 {
		zoomStep = DefaultZoomStep
	}
	return &Controller{session: session, zoomStep: zoomStep}
}

// Panning reports whether a drag is in progress.
func (c *Controller) Panning() bool { return c.panning }

// Handle advances the state machine with one input snapshot.
func (c *Controller) Handle(in PointerState) {
	if c.panning {
		c.handlePanning(in)
		return
	}

	if in.Wheel != 0 && in.Over {
		c.handleWheel(in)
		return
	}

	if in.JustPressed && in.Over {
		c.panning = true
		c.lastX = in.X
		c.lastY = in.Y
	}
}

// handlePanning processes move and release while a drag is active.
func (c *Controller) handlePanning(in PointerState) {
	if !in.Pressed {
		c.panning = false
		c.session.notifySettled()
		return
	}

	dx := in.X - c.lastX
	dy := in.Y - c.lastY
	if dx == 0 && dy == 0 {
		return
	}

	// Device delta to world delta: divide by the world-to-view scale and
	// flip Y. Dragging content right moves the visible center left, hence
	// the subtraction.
	scale := c.session.Transform().PixelsPerUnit()
	center := c.session.Center()
	c.session.SetCenter(center.X-dx/scale, center.Y+dy/scale)

	c.session.redrawView()
	c.session.notifyChanged()

	c.lastX = in.X
	c.lastY = in.Y
}

// handleWheel applies an anchor-preserving zoom step: the world point under
// the pointer stays under the pointer across the scale change. Scale is
// only ever multiplied, so it cannot reach zero.
func (c *Controller) handleWheel(in PointerState) {
	factor := c.zoomStep
	if in.Wheel > 0 {
		factor = 1 / c.zoomStep
	}

	t := c.session.Transform()
	anchorX := t.ViewToWorldX(in.X)
	anchorY := t.ViewToWorldY(in.Y)

	oldScale := c.session.Scale()
	newScale := oldScale * factor
	ratio := oldScale / newScale

	center := c.session.Center()
	c.session.SetCenter(
		anchorX+(center.X-anchorX)*ratio,
		anchorY+(center.Y-anchorY)*ratio,
	)
	c.session.SetScale(newScale)

	c.session.redrawView()
	c.session.notifyChanged()
	c.session.notifySettled()
}
