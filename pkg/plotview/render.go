package plotview

import (
	"errors"
	"fmt"

	"github.com/opd-ai/go-plotview/internal/render"
)

// gameRunner provides the Ebiten game integration for windowed rendering.
type gameRunner struct {
	game *render.Game
}

// run starts the Ebiten window loop.
// This method blocks until the window is closed or the context is cancelled.
func (gr *gameRunner) run(v *viewerImpl) {
	if err := gr.game.Run(); err != nil {
		// ErrGameTerminated is expected when context is cancelled
		if !errors.Is(err, render.ErrGameTerminated) {
			v.notifyError(NewCategorizedError(
				fmt.Errorf("render loop error: %w", err),
				ErrorCategoryRender, SeverityCritical))
		}
	}
}
