package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/opd-ai/go-plotview/internal/plot"
)

// Surface is an offscreen Ebiten image exposed as a plot drawing target.
// The session paints onto it on demand (interaction, script updates,
// resizes); the game loop blits it to the screen every frame. Repainting
// only when something changed keeps an idle plot window cheap.
type Surface struct {
	img        *ebiten.Image
	background color.RGBA
	text       *TextRenderer
}

// NewSurface creates a Surface with the given dimensions and background.
func NewSurface(width, height int, background color.RGBA) *Surface {
	return &Surface{
		img:        ebiten.NewImage(width, height),
		background: background,
		text:       NewTextRenderer(),
	}
}

// Image returns the backing image for blitting to the screen.
func (s *Surface) Image() *ebiten.Image {
	return s.img
}

// Resize reallocates the backing image. The content is undefined until the
// next repaint; callers resize and redraw in the same step.
func (s *Surface) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w, h := s.Size()
	if w == width && h == height {
		return
	}
	s.img.Deallocate()
	s.img = ebiten.NewImage(width, height)
}

// Size implements plot.Canvas.
func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear implements plot.Canvas by filling with the background color.
func (s *Surface) Clear() {
	s.img.Fill(s.background)
}

// Line implements plot.Canvas.
func (s *Surface) Line(x1, y1, x2, y2 float64, style plot.StrokeStyle) {
	s.Polyline([]plot.Point{{X: x1, Y: y1}, {X: x2, Y: y2}}, style)
}

// Polyline implements plot.Canvas. Dashed strokes are segmented first;
// solid strokes go straight to the vector rasterizer.
func (s *Surface) Polyline(points []plot.Point, style plot.StrokeStyle) {
	width := float32(style.Width)
	if width <= 0 {
		width = 1
	}
	for _, seg := range dashSegments(points, style.Dash) {
		for i := 1; i < len(seg); i++ {
			vector.StrokeLine(s.img,
				float32(seg[i-1].X), float32(seg[i-1].Y),
				float32(seg[i].X), float32(seg[i].Y),
				width, style.Color, true)
		}
	}
}

// Label implements plot.Canvas. Labels get a background-colored halo so
// they stay legible where gridlines pass under them.
func (s *Surface) Label(text string, x, y float64, fill color.RGBA) {
	s.text.DrawOutlinedText(s.img, text, x, y, fill, s.background)
}
