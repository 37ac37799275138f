package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/opd-ai/go-plotview/internal/plot"
)

// ErrGameTerminated is returned when the game loop is terminated via
// context cancellation.
var ErrGameTerminated = errors.New("game terminated")

// ErrorHandler is a function type for handling errors during game updates.
type ErrorHandler func(err error)

// DefaultErrorHandler writes errors to stderr.
func DefaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "update error: %v\n", err)
}

// Game implements ebiten.Game. It owns the offscreen surface, the plot
// session drawing onto it and the interaction controller, and bridges
// Ebiten's per-tick polling to them.
//
// The mutex serializes the game loop against script updates arriving from
// the watcher and the public facade.
type Game struct {
	mu           sync.Mutex
	config       Config
	surface      *Surface
	session      *plot.Session
	controller   *plot.Controller
	metrics      *FrameMetrics
	errorHandler ErrorHandler
	ctx          context.Context

	hintsOnce sync.Once
	painted   bool
	running   bool

	// resize target from the last Layout call.
	wantW, wantH int
}

// NewGame creates a Game with a session compiling user code through
// compiler and drawing with the given plot options.
func NewGame(config Config, compiler plot.Compiler, opts plot.Options) (*Game, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render config: %w", err)
	}

	surface := NewSurface(config.Width, config.Height, config.BackgroundColor)
	session, err := plot.NewSession(surface, compiler, opts)
	if err != nil {
		return nil, err
	}

	g := &Game{
		config:       config,
		surface:      surface,
		session:      session,
		controller:   plot.NewController(session, opts.ZoomStep),
		metrics:      NewFrameMetrics(time.Second),
		errorHandler: DefaultErrorHandler,
		wantW:        config.Width,
		wantH:        config.Height,
	}
	session.SetErrorHandler(func(err error) { g.handleError(err) })
	return g, nil
}

// SetErrorHandler sets a custom error handler for update errors.
// If nil is passed, errors will be silently ignored.
func (g *Game) SetErrorHandler(handler ErrorHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errorHandler = handler
}

// SetContext sets a context for the game loop. When the context is
// cancelled, the game loop terminates gracefully.
func (g *Game) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// SetEventSink forwards pan/zoom and settle notifications to sink.
func (g *Game) SetEventSink(sink plot.EventSink) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session.SetEventSink(sink)
}

// Metrics returns the frame timing statistics.
func (g *Game) Metrics() *FrameMetrics {
	return g.metrics
}

// UpdateScript compiles source and hot-swaps it into the session. On
// failure the previous plot stays on screen and the error is returned.
func (g *Game) UpdateScript(source string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	err := g.session.Update(source)
	g.painted = true
	return err
}

// Redraw repaints the surface with the current program and view.
func (g *Game) Redraw() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.painted = true
	return g.session.Redraw()
}

// View returns the current zoom factor and world-space center.
func (g *Game) View() (scale, centerX, centerY float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := g.session.Center()
	return g.session.Scale(), c.X, c.Y
}

// SetView sets the zoom factor and center and repaints.
func (g *Game) SetView(scale, centerX, centerY float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session.SetScale(scale)
	g.session.SetCenter(centerX, centerY)
	g.painted = true
	return g.session.Redraw()
}

// Update implements ebiten.Game.Update, called every tick.
func (g *Game) Update() error {
	start := time.Now()
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ctx != nil {
		select {
		case <-g.ctx.Done():
			return ErrGameTerminated
		default:
		}
	}

	// EWMH hints need a mapped window, so they are applied from inside the
	// loop rather than before RunGame.
	g.hintsOnce.Do(func() {
		if err := ApplyWindowHints(g.config.AlwaysOnTop, g.config.SkipTaskbar); err != nil {
			g.handleError(err)
		}
	})

	w, h := g.surface.Size()
	if g.wantW != w || g.wantH != h {
		g.surface.Resize(g.wantW, g.wantH)
		if err := g.session.Redraw(); err != nil {
			g.handleError(err)
		}
		g.painted = true
		w, h = g.wantW, g.wantH
	}

	if !g.painted {
		if err := g.session.Redraw(); err != nil {
			g.handleError(err)
		}
		g.painted = true
	}

	g.controller.Handle(ReadPointer(w, h))

	g.metrics.RecordFrame(time.Since(start))
	return nil
}

// Draw implements ebiten.Game.Draw. The surface already holds the current
// frame; drawing is a blit.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()
	screen.DrawImage(g.surface.Image(), nil)
}

// Layout implements ebiten.Game.Layout. The logical size follows the
// window so the plot resamples instead of stretching.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if outsideWidth > 0 && outsideHeight > 0 {
		g.wantW, g.wantH = outsideWidth, outsideHeight
	}
	return g.wantW, g.wantH
}

// Run starts the Ebiten game loop. It blocks until the window is closed or
// the context is cancelled; cancellation is a clean shutdown, not an error.
func (g *Game) Run() error {
	ebiten.SetWindowSize(g.config.Width, g.config.Height)
	ebiten.SetWindowTitle(g.config.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	err := ebiten.RunGame(g)

	g.mu.Lock()
	g.running = false
	g.mu.Unlock()

	if errors.Is(err, ErrGameTerminated) {
		return nil
	}
	return err
}

// IsRunning returns whether the game loop is currently running.
func (g *Game) IsRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

func (g *Game) handleError(err error) {
	if g.errorHandler != nil {
		g.errorHandler(err)
	}
}
