package plot

import "image/color"

// OpKind identifies a recorded canvas operation.
type OpKind int

const (
	OpClear OpKind = iota
	OpLine
	OpPolyline
	OpLabel
)

// Op is one recorded drawing operation.
type Op struct {
	Kind   OpKind
	X1, Y1 float64
	X2, Y2 float64
	Points []Point
	Text   string
	Style  StrokeStyle
	Fill   color.RGBA
}

// RecordingCanvas is a Canvas that records operations instead of
// rasterizing them. It backs headless sessions and is the main test double
// for the renderer-facing components.
type RecordingCanvas struct {
	W, H int
	Ops  []Op
}

// NewRecordingCanvas returns a RecordingCanvas with the given dimensions.
func NewRecordingCanvas(width, height int) *RecordingCanvas {
	return &RecordingCanvas{W: width, H: height}
}

// Size implements Canvas.
func (r *RecordingCanvas) Size() (int, int) { return r.W, r.H }

// Clear implements Canvas. It drops previously recorded operations,
// mirroring a real surface repaint.
func (r *RecordingCanvas) Clear() {
	r.Ops = append(r.Ops[:0], Op{Kind: OpClear})
}

// Line implements Canvas.
func (r *RecordingCanvas) Line(x1, y1, x2, y2 float64, style StrokeStyle) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X1: x1, Y1: y1, X2: x2, Y2: y2, Style: style})
}

// Polyline implements Canvas.
func (r *RecordingCanvas) Polyline(points []Point, style StrokeStyle) {
	pts := make([]Point, len(points))
	copy(pts, points)
	r.Ops = append(r.Ops, Op{Kind: OpPolyline, Points: pts, Style: style})
}

// Label implements Canvas.
func (r *RecordingCanvas) Label(text string, x, y float64, fill color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpLabel, Text: text, X1: x, Y1: y, Fill: fill})
}

// CountKind returns how many recorded operations have the given kind.
func (r *RecordingCanvas) CountKind(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
