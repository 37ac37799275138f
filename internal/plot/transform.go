package plot

// ViewState is the mutable pan/zoom state of a session. Scale is the user
// zoom factor (1.0 = unzoomed, always > 0); Center is the world-space point
// shown at the middle of the surface.
type ViewState struct {
	Scale  float64
	Center Point
}

// Geometry is the surface size snapshot taken at the start of a redraw.
type Geometry struct {
	Width  int
	Height int
}

// Transform maps between world space (mathematical coordinates, Y up) and
// view space (surface pixels, Y down) for one fixed snapshot of ViewState
// and Geometry. It is recomputed at the start of every redraw and never
// cached across redraws.
type Transform struct {
	geom   Geometry
	center Point
	scale  float64 // user zoom factor
	wsToVs float64 // world units to view pixels
}

// NewTransform derives a Transform from the current view state and surface
// geometry. baseSize is the world-space span guaranteed visible along the
// shorter surface dimension at scale 1.0.
func NewTransform(geom Geometry, view ViewState, baseSize float64) Transform {
	short := geom.Width
	if geom.Height < short {
		short = geom.Height
	}
	baseScale := float64(short) / baseSize
	return Transform{
		geom:   geom,
		center: view.Center,
		scale:  view.Scale,
		wsToVs: baseScale * view.Scale,
	}
}

// WorldToViewX maps a world-space X coordinate to view-space pixels.
func (t Transform) WorldToViewX(wx float64) float64 {
	return float64(t.geom.Width)/2 + (wx-t.center.X)*t.wsToVs
}

// WorldToViewY maps a world-space Y coordinate to view-space pixels.
// World Y grows upward, view Y downward, hence the sign flip.
func (t Transform) WorldToViewY(wy float64) float64 {
	return float64(t.geom.Height)/2 - (wy-t.center.Y)*t.wsToVs
}

// ViewToWorldX maps a view-space X coordinate back to world space.
func (t Transform) ViewToWorldX(vx float64) float64 {
	return t.center.X + (vx-float64(t.geom.Width)/2)/t.wsToVs
}

// ViewToWorldY maps a view-space Y coordinate back to world space.
func (t Transform) ViewToWorldY(vy float64) float64 {
	return t.center.Y - (vy-float64(t.geom.Height)/2)/t.wsToVs
}

// PixelsPerUnit returns the combined world-to-view scale factor.
func (t Transform) PixelsPerUnit() float64 {
	return t.wsToVs
}

// ViewScale returns the user zoom factor the transform was derived from.
func (t Transform) ViewScale() float64 {
	return t.scale
}

// Geometry returns the surface size snapshot the transform was derived from.
func (t Transform) Geometry() Geometry {
	return t.geom
}
