package plotview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-plotview/internal/config"
	"github.com/opd-ai/go-plotview/internal/lua"
	"github.com/opd-ai/go-plotview/internal/plot"
	"github.com/opd-ai/go-plotview/internal/render"
)

// plotTarget is the surface the facade drives: the Ebiten game in windowed
// mode, a recording session in headless mode.
type plotTarget interface {
	UpdateScript(source string) error
	SetView(scale, centerX, centerY float64) error
	View() (scale, centerX, centerY float64)
}

// viewerImpl is the private implementation of the Viewer interface.
type viewerImpl struct {
	// Configuration
	cfg          config.Config
	opts         Options
	scriptSource string
	scriptPath   string // Empty for FS/reader sources; watching needs a disk path
	scriptLoader func() (string, error)

	// Components
	luaRT         *lua.Runtime
	target        plotTarget
	gameRunner    *gameRunner // nil in headless mode
	watcher       *scriptWatcher
	reloadBreaker *CircuitBreaker
	metrics       *Metrics
	tracker       *ErrorTracker
	logger        Logger

	// State
	running     atomic.Bool
	startTime   time.Time
	reloadCount atomic.Uint64
	lastError   atomic.Value // stores error

	// Handlers
	errorHandler ErrorHandler
	eventHandler EventHandler

	// Synchronization
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Verify interface implementation at compile time.
var _ Viewer = (*viewerImpl)(nil)

// Start opens the window (or the headless session) and begins operation.
func (v *viewerImpl) Start() error {
	v.mu.Lock()

	if v.running.Load() {
		v.mu.Unlock()
		return fmt.Errorf("viewer already running")
	}

	// Create cancellable context carrying a correlation ID for this run
	v.ctx, v.cancel = context.WithCancel(context.Background())
	v.ctx = WithCorrelationID(v.ctx, NewCorrelationID())

	// Initialize components
	if err := v.initComponents(); err != nil {
		if v.cancel != nil {
			v.cancel()
		}
		v.mu.Unlock()
		return fmt.Errorf("failed to initialize: %w", err)
	}

	// Initial script load. With watching enabled a broken script is
	// recoverable (the next save retries), so it is reported instead of
	// aborting the start; the grid stays on screen meanwhile.
	var startupErr error
	source, err := v.scriptLoader()
	if err == nil {
		err = v.applyScript(v.target, source)
	}
	if err != nil {
		if v.watcher == nil {
			v.cleanup()
			v.cancel()
			v.mu.Unlock()
			return fmt.Errorf("load script: %w", err)
		}
		startupErr = err
	}

	// Set running state BEFORE starting goroutine to avoid race
	v.running.Store(true)
	v.startTime = time.Now()
	v.reloadCount.Store(0)

	// Update metrics
	v.metrics.IncrementStarts()
	v.metrics.SetRunning(true)

	if v.watcher != nil {
		v.watcher.Start()
		v.metrics.SetWatcherActive(true)
	}

	// Run the main loop in a goroutine (non-blocking)
	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		defer v.cleanup()
		defer v.running.Store(false)
		defer v.metrics.SetRunning(false)
		defer v.metrics.SetWatcherActive(false)

		if v.gameRunner == nil {
			// Headless mode: just wait for context cancellation
			<-v.ctx.Done()
		} else {
			// GUI mode: run the Ebiten rendering loop
			v.gameRunner.run(v)

			// Ensure context is cancelled when the render loop exits (e.g.
			// when the user closes the window), so the watcher and any
			// waiters shut down too.
			if v.cancel != nil {
				v.cancel()
			}
		}

		v.emitEvent(EventStopped, "Viewer stopped")
	}()

	// Release lock before emitting events to avoid deadlock
	v.mu.Unlock()

	if startupErr != nil {
		v.notifyError(NewCategorizedError(
			fmt.Errorf("load script: %w", startupErr),
			ErrorCategoryScript, SeverityError))
	}
	v.emitEvent(EventStarted, "Viewer started")

	return nil
}

// Stop gracefully shuts down the viewer.
func (v *viewerImpl) Stop() error {
	if !v.running.Load() {
		return nil // Already stopped
	}

	// Signal stop
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	v.mu.Unlock()

	// Wait for goroutines with timeout
	done := make(chan struct{})
	go func() {
		v.wg.Wait()
		close(done)
	}()

	// Use configured timeout or default
	timeout := v.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	select {
	case <-done:
		v.metrics.IncrementStops()
		return nil
	case <-time.After(timeout):
		err := fmt.Errorf("shutdown timeout after %v: some goroutines did not stop", timeout)
		v.notifyError(NewCategorizedError(err, ErrorCategoryRender, SeverityCritical))
		return err
	}
}

// Restart performs a stop followed by a start. The script is re-read from
// its source during the start.
func (v *viewerImpl) Restart() error {
	if err := v.Stop(); err != nil {
		return fmt.Errorf("stop failed: %w", err)
	}

	if err := v.Start(); err != nil {
		return fmt.Errorf("start failed: %w", err)
	}

	v.metrics.IncrementRestarts()
	v.emitEvent(EventRestarted, "Viewer restarted")
	return nil
}

// ReloadScript re-reads the script and hot-swaps it without stopping. A
// failing script leaves the previous plot on screen. Reloads run through a
// circuit breaker so a script that breaks on every save does not hammer
// the session.
func (v *viewerImpl) ReloadScript() error {
	if !v.running.Load() {
		return fmt.Errorf("viewer not running")
	}

	source, err := v.scriptLoader()
	if err != nil {
		wrappedErr := fmt.Errorf("read script: %w", err)
		v.notifyError(NewCategorizedError(wrappedErr, ErrorCategoryIO, SeverityError))
		return wrappedErr
	}

	v.mu.RLock()
	target := v.target
	breaker := v.reloadBreaker
	v.mu.RUnlock()

	if target == nil {
		return fmt.Errorf("viewer not initialized")
	}

	err = breaker.Execute(func() error {
		return v.applyScript(target, source)
	})
	if err != nil {
		if errors.Is(err, ErrCircuitOpen) {
			if v.logger != nil {
				v.logger.Warn("script reload rejected", "reason", "circuit open")
			}
			return err
		}
		wrappedErr := fmt.Errorf("script reload failed: %w", err)
		v.notifyError(NewCategorizedError(wrappedErr, ErrorCategoryScript, SeverityError))
		return wrappedErr
	}

	v.reloadCount.Add(1)
	v.metrics.IncrementScriptReloads()
	v.emitEvent(EventScriptReloaded, "Script reloaded in-place")
	return nil
}

// applyScript compiles source and swaps it into the target, recording
// compile metrics.
func (v *viewerImpl) applyScript(target plotTarget, source string) error {
	start := time.Now()
	err := target.UpdateScript(source)
	v.metrics.IncrementCompiles()
	v.metrics.RecordCompileLatency(time.Since(start))
	if err != nil {
		v.metrics.IncrementCompileErrors()
	}
	return err
}

// SetView sets the zoom factor and world-space center and repaints.
func (v *viewerImpl) SetView(scale, centerX, centerY float64) error {
	v.mu.RLock()
	target := v.target
	v.mu.RUnlock()

	if target == nil || !v.running.Load() {
		return fmt.Errorf("viewer not running")
	}

	start := time.Now()
	err := target.SetView(scale, centerX, centerY)
	v.metrics.RecordRedrawLatency(time.Since(start))
	if err != nil {
		wrappedErr := fmt.Errorf("set view: %w", err)
		v.notifyError(NewCategorizedError(wrappedErr, ErrorCategoryRender, SeverityError))
		return wrappedErr
	}
	return nil
}

// View returns the current zoom factor and world-space center.
func (v *viewerImpl) View() (scale, centerX, centerY float64) {
	v.mu.RLock()
	target := v.target
	v.mu.RUnlock()

	if target == nil {
		return 0, 0, 0
	}
	return target.View()
}

// IsRunning returns true if the viewer is currently running.
func (v *viewerImpl) IsRunning() bool {
	return v.running.Load()
}

// Status returns detailed status information about the instance.
func (v *viewerImpl) Status() Status {
	v.mu.RLock()
	startTime := v.startTime
	scriptSource := v.scriptSource
	v.mu.RUnlock()

	return Status{
		Running:      v.running.Load(),
		StartTime:    startTime,
		ReloadCount:  v.reloadCount.Load(),
		LastError:    v.getError(),
		ScriptSource: scriptSource,
	}
}

// SetErrorHandler registers a callback for runtime errors.
func (v *viewerImpl) SetErrorHandler(handler ErrorHandler) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errorHandler = handler
}

// SetEventHandler registers a callback for lifecycle events.
func (v *viewerImpl) SetEventHandler(handler EventHandler) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.eventHandler = handler
}

// initComponents initializes all components for operation.
// Must be called with mu held.
func (v *viewerImpl) initComponents() error {
	// Metrics and error tracking (use provided or defaults)
	if v.opts.Metrics != nil {
		v.metrics = v.opts.Metrics
	} else {
		v.metrics = DefaultMetrics()
	}
	if v.opts.ErrorTracker != nil {
		v.tracker = v.opts.ErrorTracker
	} else {
		v.tracker = DefaultErrorTracker()
	}
	v.logger = NewCorrelatedLogger(v.ctx, v.opts.Logger)

	// Lua runtime with resource limits from config, overridable per Options
	luaCfg := lua.DefaultConfig()
	if v.cfg.Script.CPULimit > 0 {
		luaCfg.CPULimit = v.cfg.Script.CPULimit
	}
	if v.cfg.Script.MemoryLimit > 0 {
		luaCfg.MemoryLimit = v.cfg.Script.MemoryLimit
	}
	if v.opts.LuaCPULimit > 0 {
		luaCfg.CPULimit = v.opts.LuaCPULimit
	}
	if v.opts.LuaMemoryLimit > 0 {
		luaCfg.MemoryLimit = v.opts.LuaMemoryLimit
	}

	luaRT, err := lua.New(luaCfg)
	if err != nil {
		return fmt.Errorf("lua runtime: %w", err)
	}
	v.luaRT = luaRT

	plotOpts := v.plotOptions()

	if v.opts.Headless {
		canvas := plot.NewRecordingCanvas(v.cfg.Window.Width, v.cfg.Window.Height)
		session, err := plot.NewSession(canvas, luaRT, plotOpts)
		if err != nil {
			luaRT.Close()
			return fmt.Errorf("plot session: %w", err)
		}
		session.SetEventSink(sessionEvents{v})
		session.SetErrorHandler(v.renderError)
		v.target = &headlessTarget{session: session}
		v.gameRunner = nil
	} else {
		rc := render.DefaultConfig()
		rc.Width = v.cfg.Window.Width
		rc.Height = v.cfg.Window.Height
		rc.Title = v.cfg.Window.Title
		if v.opts.WindowTitle != "" {
			rc.Title = v.opts.WindowTitle
		}
		rc.BackgroundColor = v.cfg.Colors.Background
		rc.AlwaysOnTop = v.cfg.Window.AlwaysOnTop
		rc.SkipTaskbar = v.cfg.Window.SkipTaskbar

		game, err := render.NewGame(rc, luaRT, plotOpts)
		if err != nil {
			luaRT.Close()
			return fmt.Errorf("render game: %w", err)
		}
		game.SetContext(v.ctx)
		game.SetEventSink(sessionEvents{v})
		game.SetErrorHandler(v.renderError)
		v.target = game
		v.gameRunner = &gameRunner{game: game}
	}

	// Circuit breaker guarding script reloads
	v.reloadBreaker = NewCircuitBreaker(CircuitBreakerConfig{
		OnStateChange: func(from, to CircuitState) {
			if v.logger != nil {
				v.logger.Info("reload circuit state changed", "from", from.String(), "to", to.String())
			}
		},
	})

	// Script file watcher for hot reload
	v.watcher = nil
	if v.scriptPath != "" && (v.opts.WatchScript || v.cfg.Script.Watch) {
		debounce := v.opts.WatchDebounce
		if debounce <= 0 {
			debounce = time.Duration(v.cfg.Script.DebounceMillis) * time.Millisecond
		}
		watcher, err := newScriptWatcher(
			v.scriptPath,
			debounce,
			func() error {
				// ReloadScript reports its own failures; a broken save
				// must not surface twice.
				v.ReloadScript()
				return nil
			},
			func(err error) {
				v.notifyError(NewCategorizedError(err, ErrorCategoryWatch, SeverityWarning))
			},
		)
		if err != nil {
			luaRT.Close()
			return fmt.Errorf("script watcher: %w", err)
		}
		v.watcher = watcher
	}

	return nil
}

// plotOptions maps the configuration to session options.
func (v *viewerImpl) plotOptions() plot.Options {
	opts := plot.DefaultOptions()
	p := v.cfg.Plot
	if p.BaseSize > 0 {
		opts.BaseSize = p.BaseSize
	}
	if p.GridSpacing > 0 {
		opts.GridSpacing = p.GridSpacing
	}
	if p.MajorInterval > 0 {
		opts.MajorInterval = p.MajorInterval
	}
	if p.StepSize > 0 {
		opts.StepSize = p.StepSize
	}
	if p.ZoomStep > 0 && p.ZoomStep < 1 {
		opts.ZoomStep = p.ZoomStep
	}
	if p.Scale > 0 {
		opts.Scale = p.Scale
	}
	opts.Center = plot.Point{X: p.CenterX, Y: p.CenterY}

	style := plot.DefaultGridStyle()
	style.Minor = v.cfg.Colors.GridMinor
	style.Major = v.cfg.Colors.GridMajor
	style.Axis = v.cfg.Colors.Axis
	style.Label = v.cfg.Colors.Label
	opts.Style = style

	return opts
}

// renderError forwards redraw failures from the session to the error path.
func (v *viewerImpl) renderError(err error) {
	v.notifyError(NewCategorizedError(err, ErrorCategoryRender, SeverityError))
}

// cleanup releases all resources. Both the watcher and the Lua runtime are
// safe to stop twice.
func (v *viewerImpl) cleanup() {
	if v.watcher != nil {
		v.watcher.Stop()
	}
	if v.luaRT != nil {
		v.luaRT.Close()
	}
}

// getError retrieves the last error.
func (v *viewerImpl) getError() error {
	if val := v.lastError.Load(); val != nil {
		if err, ok := val.(error); ok {
			return err
		}
	}
	return nil
}

// notifyError stores an error, records it with the tracker and invokes the
// error handler if registered.
func (v *viewerImpl) notifyError(err *CategorizedError) {
	// Store the error for Status() retrieval
	v.lastError.Store(error(err))

	// Update metrics and the error tracker
	if v.metrics != nil {
		v.metrics.IncrementErrors()
	}
	if v.tracker != nil {
		v.tracker.Record(err)
	}

	v.mu.RLock()
	handler := v.errorHandler
	logger := v.logger
	v.mu.RUnlock()

	if handler != nil {
		go func() {
			defer func() {
				// Recover from panics in error handler to prevent crashing
				if r := recover(); r != nil {
					if logger != nil {
						logger.Error("error handler panicked", "panic", r, "original_error", err)
					}
				}
			}()
			handler(err)
		}()
	}

	// Also emit an error event
	v.emitEvent(EventError, err.Error())
}

// emitEvent sends an event to the event handler if configured.
func (v *viewerImpl) emitEvent(eventType EventType, message string) {
	// Update metrics
	if v.metrics != nil {
		v.metrics.IncrementEventsEmitted()
	}

	v.mu.RLock()
	handler := v.eventHandler
	v.mu.RUnlock()

	if handler != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					// Recover from panics in the handler to avoid crashing the embedding application.
					v.mu.RLock()
					errHandler := v.errorHandler
					v.mu.RUnlock()
					if errHandler != nil {
						if err, ok := r.(error); ok {
							errHandler(fmt.Errorf("panic in event handler: %w", err))
						} else {
							errHandler(fmt.Errorf("panic in event handler: %v", r))
						}
					}
				}
			}()

			handler(Event{
				Type:      eventType,
				Timestamp: time.Now(),
				Message:   message,
			})
		}()
	}
}

// Health returns a health check result for the viewer.
func (v *viewerImpl) Health() HealthCheck {
	now := time.Now()
	components := make(map[string]ComponentHealth)

	running := v.running.Load()

	// Calculate uptime
	var uptime time.Duration
	v.mu.RLock()
	if running && !v.startTime.IsZero() {
		uptime = now.Sub(v.startTime)
	}
	breaker := v.reloadBreaker
	watcher := v.watcher
	v.mu.RUnlock()

	// Check viewer component
	if running {
		components["viewer"] = ComponentHealth{
			Status:      HealthOK,
			Message:     "Viewer is running",
			LastUpdated: now,
		}
	} else {
		components["viewer"] = ComponentHealth{
			Status:      HealthUnhealthy,
			Message:     "Viewer is not running",
			LastUpdated: now,
		}
	}

	// Check script component via the reload circuit breaker
	switch {
	case breaker == nil:
		components["script"] = ComponentHealth{
			Status:      HealthUnhealthy,
			Message:     "Script runtime not initialized",
			LastUpdated: now,
		}
	case breaker.State() != CircuitClosed:
		components["script"] = ComponentHealth{
			Status:      HealthDegraded,
			Message:     fmt.Sprintf("Reload circuit %s after repeated failures", breaker.State()),
			LastUpdated: now,
		}
	default:
		components["script"] = ComponentHealth{
			Status:      HealthOK,
			Message:     fmt.Sprintf("Script active, %d reloads completed", v.reloadCount.Load()),
			LastUpdated: now,
		}
	}

	// Check watcher component
	if watcher != nil {
		components["watcher"] = ComponentHealth{
			Status:      HealthOK,
			Message:     "Script watcher active",
			LastUpdated: now,
		}
	}

	// Check for errors
	lastErr := v.getError()
	if lastErr != nil {
		components["errors"] = ComponentHealth{
			Status:      HealthDegraded,
			Message:     lastErr.Error(),
			LastUpdated: now,
		}
	} else {
		components["errors"] = ComponentHealth{
			Status:      HealthOK,
			Message:     "No recent errors",
			LastUpdated: now,
		}
	}

	// Determine overall status
	overallStatus := HealthOK
	var message string

	switch {
	case !running:
		overallStatus = HealthUnhealthy
		message = "Viewer is not running"
	case lastErr != nil:
		overallStatus = HealthDegraded
		message = "Running with recent errors"
	default:
		message = "All components healthy"
	}

	return HealthCheck{
		Status:     overallStatus,
		Timestamp:  now,
		Uptime:     uptime,
		Components: components,
		Message:    message,
	}
}

// Metrics returns the metrics collector for this instance.
func (v *viewerImpl) Metrics() *Metrics {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.metrics != nil {
		return v.metrics
	}
	if v.opts.Metrics != nil {
		return v.opts.Metrics
	}
	return DefaultMetrics()
}

// sessionEvents bridges session notifications to facade events and metrics.
type sessionEvents struct {
	v *viewerImpl
}

func (s sessionEvents) PlotChanged() {
	s.v.metrics.IncrementViewChanges()
	s.v.emitEvent(EventPlotChanged, "view changed")
}

func (s sessionEvents) PlotSettled() {
	s.v.metrics.IncrementViewSettles()
	s.v.emitEvent(EventPlotSettled, "view settled")
}

// headlessTarget drives a plot session over a recording canvas. The session
// is not safe for concurrent use, so calls are serialized here; in windowed
// mode render.Game does the same.
type headlessTarget struct {
	mu      sync.Mutex
	session *plot.Session
}

func (h *headlessTarget) UpdateScript(source string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session.Update(source)
}

func (h *headlessTarget) SetView(scale, centerX, centerY float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session.SetScale(scale)
	h.session.SetCenter(centerX, centerY)
	return h.session.Redraw()
}

func (h *headlessTarget) View() (scale, centerX, centerY float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.session.Center()
	return h.session.Scale(), c.X, c.Y
}
