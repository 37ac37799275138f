package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/opd-ai/go-plotview/internal/plot"
)

// ReadPointer polls the mouse state for one tick and packages it for the
// interaction controller. width and height bound the plot surface in
// logical pixels; the Over flag is false once the cursor leaves them.
func ReadPointer(width, height int) plot.PointerState {
	cx, cy := ebiten.CursorPosition()
	_, wheelY := ebiten.Wheel()

	return plot.PointerState{
		X:           float64(cx),
		Y:           float64(cy),
		Pressed:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		JustPressed: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Wheel:       wheelY,
		Over:        cx >= 0 && cy >= 0 && cx < width && cy < height,
	}
}
