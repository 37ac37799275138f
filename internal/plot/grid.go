package plot

import (
	"image/color"
	"math"
	"strconv"
)

// GridStyle holds the stroke colors and widths for gridlines, axes and
// axis number labels.
type GridStyle struct {
	Minor      color.RGBA
	Major      color.RGBA
	Axis       color.RGBA
	Label      color.RGBA
	MinorWidth float64
	MajorWidth float64
	AxisWidth  float64
}

// DefaultGridStyle returns the stock light-theme grid styling.
func DefaultGridStyle() GridStyle {
	return GridStyle{
		Minor:      color.RGBA{R: 224, G: 224, B: 224, A: 255},
		Major:      color.RGBA{R: 176, G: 176, B: 176, A: 255},
		Axis:       color.RGBA{R: 64, G: 64, B: 64, A: 255},
		Label:      color.RGBA{R: 64, G: 64, B: 64, A: 255},
		MinorWidth: 1,
		MajorWidth: 1,
		AxisWidth:  1,
	}
}

// labelOffset is the pixel gap between an axis line and its number labels.
const labelOffset = 4.0

// GridRenderer draws minor and major gridlines, the two axis lines, and
// numeric labels at major gridline positions.
//
// Gridline spacing in world units is the configured spacing divided by the
// power of two nearest to the current zoom factor. Snapping the divisor to
// powers of two keeps the on-screen gridline density within a constant
// factor of the density at scale 1.0, for any zoom level: the count can
// neither explode nor vanish as the user zooms continuously.
type GridRenderer struct {
	// Spacing is the minor gridline spacing in world units at scale 1.0.
	Spacing float64
	// MajorInterval is the number of minor gridlines per major gridline.
	MajorInterval int
	// Format renders a world value as axis label text.
	Format NumberFormatter
	// Style holds colors and stroke widths.
	Style GridStyle
}

// NewGridRenderer returns a GridRenderer with the given spacing and major
// interval and default formatting and styling.
func NewGridRenderer(spacing float64, majorInterval int) *GridRenderer {
	return &GridRenderer{
		Spacing:       spacing,
		MajorInterval: majorInterval,
		Format:        FormatNumber,
		Style:         DefaultGridStyle(),
	}
}

// FormatNumber is the default NumberFormatter. It is locale-independent
// and uses the shortest decimal representation that round-trips.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// MinorSpacing returns the world-space spacing between minor gridlines for
// the given zoom factor.
func (g *GridRenderer) MinorSpacing(viewScale float64) float64 {
	return g.Spacing / math.Pow(2, math.Round(math.Log2(viewScale)))
}

// Draw renders the grid, axes and labels onto c using the transform t.
func (g *GridRenderer) Draw(c Canvas, t Transform) {
	geom := t.Geometry()
	w := float64(geom.Width)
	h := float64(geom.Height)

	// Visible world bounds from the four surface edges. Y min/max swap
	// because view Y grows downward.
	minX := t.ViewToWorldX(0)
	maxX := t.ViewToWorldX(w)
	minY := t.ViewToWorldY(h)
	maxY := t.ViewToWorldY(0)

	minor := g.MinorSpacing(t.ViewScale())
	major := minor * float64(g.MajorInterval)

	minorStyle := StrokeStyle{Color: g.Style.Minor, Width: g.Style.MinorWidth}
	majorStyle := StrokeStyle{Color: g.Style.Major, Width: g.Style.MajorWidth}
	axisStyle := StrokeStyle{Color: g.Style.Axis, Width: g.Style.AxisWidth}

	g.drawLines(c, t, minX, maxX, minY, maxY, minor, minorStyle)
	g.drawLines(c, t, minX, maxX, minY, maxY, major, majorStyle)

	// Axis lines at world zero.
	axisX := snapPixel(t.WorldToViewX(0))
	axisY := snapPixel(t.WorldToViewY(0))
	c.Line(axisX, 0, axisX, h, axisStyle)
	c.Line(0, axisY, w, axisY, axisStyle)

	g.drawLabels(c, t, minX, maxX, minY, maxY, major, axisX, axisY)
}

// drawLines strokes one full-height vertical line per spacing multiple
// across [minX, maxX] and one full-width horizontal line per multiple
// across [minY, maxY].
func (g *GridRenderer) drawLines(c Canvas, t Transform, minX, maxX, minY, maxY, spacing float64, style StrokeStyle) {
	geom := t.Geometry()
	w := float64(geom.Width)
	h := float64(geom.Height)

	for n := math.Floor(minX / spacing); n <= math.Ceil(maxX/spacing); n++ {
		x := snapPixel(t.WorldToViewX(n * spacing))
		c.Line(x, 0, x, h, style)
	}
	for n := math.Floor(minY / spacing); n <= math.Ceil(maxY/spacing); n++ {
		y := snapPixel(t.WorldToViewY(n * spacing))
		c.Line(0, y, w, y, style)
	}
}

// drawLabels writes a number label at every major gridline position except
// the origin crossing, which gets a single "0" label instead of one per
// axis.
func (g *GridRenderer) drawLabels(c Canvas, t Transform, minX, maxX, minY, maxY, major, axisX, axisY float64) {
	format := g.Format
	if format == nil {
		format = FormatNumber
	}

	for n := math.Floor(minX / major); n <= math.Ceil(maxX/major); n++ {
		if n == 0 {
			continue
		}
		v := n * major
		x := snapPixel(t.WorldToViewX(v))
		c.Label(format(v), x+labelOffset, axisY+labelOffset, g.Style.Label)
	}
	for n := math.Floor(minY / major); n <= math.Ceil(maxY/major); n++ {
		if n == 0 {
			continue
		}
		v := n * major
		y := snapPixel(t.WorldToViewY(v))
		c.Label(format(v), axisX+labelOffset, y+labelOffset, g.Style.Label)
	}

	c.Label("0", axisX+labelOffset, axisY+labelOffset, g.Style.Label)
}

// snapPixel aligns a stroke center to the pixel grid so 1px lines land on
// pixel boundaries instead of smearing across two anti-aliased rows.
func snapPixel(v float64) float64 {
	return math.Round(v) + 0.5
}
