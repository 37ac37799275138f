package plotview

import (
	"expvar"
	"sync/atomic"
	"time"
)

// Metrics provides application-level metrics collection for plotview.
// It uses Go's expvar package for exposition, which can be accessed via the
// /debug/vars HTTP endpoint when an HTTP server is running.
//
// Thread-safe for concurrent use.
//
// Example usage:
//
//	metrics := plotview.NewMetrics()
//	metrics.IncrementScriptReloads()
//	metrics.RecordCompileLatency(15 * time.Millisecond)
//
//	// For HTTP exposition, import expvar's HTTP handler:
//	// import _ "expvar"
//	// This registers /debug/vars automatically.
type Metrics struct {
	// Counters
	starts        atomic.Int64
	stops         atomic.Int64
	restarts      atomic.Int64
	scriptReloads atomic.Int64
	compiles      atomic.Int64
	compileErrors atomic.Int64
	viewChanges   atomic.Int64
	viewSettles   atomic.Int64
	errorsTotal   atomic.Int64
	eventsEmitted atomic.Int64

	// Latency tracking (stored as nanoseconds)
	compileLatencyNs    atomic.Int64
	compileLatencyCount atomic.Int64
	redrawLatencyNs     atomic.Int64
	redrawLatencyCount  atomic.Int64

	// Current state gauges
	currentlyRunning atomic.Int32
	watcherActive    atomic.Int32

	// Registration tracking to prevent duplicate expvar registration
	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
// Call RegisterExpvar() to expose metrics via the /debug/vars endpoint.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar registers all metrics with Go's expvar package.
// This makes metrics available at /debug/vars when an HTTP server is running.
// Safe to call multiple times; subsequent calls are no-ops.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return // Already registered
	}

	// Counters
	expvar.Publish("plotview_starts_total", expvar.Func(func() any { return m.starts.Load() }))
	expvar.Publish("plotview_stops_total", expvar.Func(func() any { return m.stops.Load() }))
	expvar.Publish("plotview_restarts_total", expvar.Func(func() any { return m.restarts.Load() }))
	expvar.Publish("plotview_script_reloads_total", expvar.Func(func() any { return m.scriptReloads.Load() }))
	expvar.Publish("plotview_compiles_total", expvar.Func(func() any { return m.compiles.Load() }))
	expvar.Publish("plotview_compile_errors_total", expvar.Func(func() any { return m.compileErrors.Load() }))
	expvar.Publish("plotview_view_changes_total", expvar.Func(func() any { return m.viewChanges.Load() }))
	expvar.Publish("plotview_view_settles_total", expvar.Func(func() any { return m.viewSettles.Load() }))
	expvar.Publish("plotview_errors_total", expvar.Func(func() any { return m.errorsTotal.Load() }))
	expvar.Publish("plotview_events_emitted_total", expvar.Func(func() any { return m.eventsEmitted.Load() }))

	// Gauges
	expvar.Publish("plotview_running", expvar.Func(func() any { return m.currentlyRunning.Load() }))
	expvar.Publish("plotview_watcher_active", expvar.Func(func() any { return m.watcherActive.Load() }))

	// Latency averages (milliseconds)
	expvar.Publish("plotview_compile_latency_avg_ms", expvar.Func(func() any {
		count := m.compileLatencyCount.Load()
		if count == 0 {
			return float64(0)
		}
		return float64(m.compileLatencyNs.Load()) / float64(count) / 1e6
	}))
	expvar.Publish("plotview_redraw_latency_avg_ms", expvar.Func(func() any {
		count := m.redrawLatencyCount.Load()
		if count == 0 {
			return float64(0)
		}
		return float64(m.redrawLatencyNs.Load()) / float64(count) / 1e6
	}))
}

// Snapshot returns a point-in-time copy of all metrics.
// Useful for testing or custom metric exposition.
func (m *Metrics) Snapshot() MetricsSnapshot {
	compileCount := m.compileLatencyCount.Load()
	redrawCount := m.redrawLatencyCount.Load()

	return MetricsSnapshot{
		Starts:        m.starts.Load(),
		Stops:         m.stops.Load(),
		Restarts:      m.restarts.Load(),
		ScriptReloads: m.scriptReloads.Load(),
		Compiles:      m.compiles.Load(),
		CompileErrors: m.compileErrors.Load(),
		ViewChanges:   m.viewChanges.Load(),
		ViewSettles:   m.viewSettles.Load(),
		ErrorsTotal:   m.errorsTotal.Load(),
		EventsEmitted: m.eventsEmitted.Load(),

		Running:       m.currentlyRunning.Load() > 0,
		WatcherActive: m.watcherActive.Load() > 0,

		CompileLatencyAvg: safeDivide(m.compileLatencyNs.Load(), compileCount),
		RedrawLatencyAvg:  safeDivide(m.redrawLatencyNs.Load(), redrawCount),
	}
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	// Counters
	Starts        int64
	Stops         int64
	Restarts      int64
	ScriptReloads int64
	Compiles      int64
	CompileErrors int64
	ViewChanges   int64
	ViewSettles   int64
	ErrorsTotal   int64
	EventsEmitted int64

	// Gauges
	Running       bool
	WatcherActive bool

	// Latency averages
	CompileLatencyAvg time.Duration
	RedrawLatencyAvg  time.Duration
}

// Counter increment methods

// IncrementStarts records a start operation.
func (m *Metrics) IncrementStarts() {
	m.starts.Add(1)
}

// IncrementStops records a stop operation.
func (m *Metrics) IncrementStops() {
	m.stops.Add(1)
}

// IncrementRestarts records a restart operation.
func (m *Metrics) IncrementRestarts() {
	m.restarts.Add(1)
}

// IncrementScriptReloads records a script hot-swap.
func (m *Metrics) IncrementScriptReloads() {
	m.scriptReloads.Add(1)
}

// IncrementCompiles records a script compilation attempt.
func (m *Metrics) IncrementCompiles() {
	m.compiles.Add(1)
}

// IncrementCompileErrors records a failed script compilation or run.
func (m *Metrics) IncrementCompileErrors() {
	m.compileErrors.Add(1)
}

// IncrementViewChanges records an incremental pan/zoom view change.
func (m *Metrics) IncrementViewChanges() {
	m.viewChanges.Add(1)
}

// IncrementViewSettles records a completed gesture or update.
func (m *Metrics) IncrementViewSettles() {
	m.viewSettles.Add(1)
}

// IncrementErrors records an error occurrence.
func (m *Metrics) IncrementErrors() {
	m.errorsTotal.Add(1)
}

// IncrementEventsEmitted records an event emission.
func (m *Metrics) IncrementEventsEmitted() {
	m.eventsEmitted.Add(1)
}

// Gauge methods

// SetRunning updates the running state gauge.
func (m *Metrics) SetRunning(running bool) {
	if running {
		m.currentlyRunning.Store(1)
	} else {
		m.currentlyRunning.Store(0)
	}
}

// SetWatcherActive updates the script watcher gauge.
func (m *Metrics) SetWatcherActive(active bool) {
	if active {
		m.watcherActive.Store(1)
	} else {
		m.watcherActive.Store(0)
	}
}

// Latency recording methods

// RecordCompileLatency records the duration of a script compile-and-swap.
func (m *Metrics) RecordCompileLatency(d time.Duration) {
	m.compileLatencyNs.Add(d.Nanoseconds())
	m.compileLatencyCount.Add(1)
}

// RecordRedrawLatency records the duration of a full surface repaint.
func (m *Metrics) RecordRedrawLatency(d time.Duration) {
	m.redrawLatencyNs.Add(d.Nanoseconds())
	m.redrawLatencyCount.Add(1)
}

// Reset clears all metrics. Useful for testing.
func (m *Metrics) Reset() {
	m.starts.Store(0)
	m.stops.Store(0)
	m.restarts.Store(0)
	m.scriptReloads.Store(0)
	m.compiles.Store(0)
	m.compileErrors.Store(0)
	m.viewChanges.Store(0)
	m.viewSettles.Store(0)
	m.errorsTotal.Store(0)
	m.eventsEmitted.Store(0)

	m.compileLatencyNs.Store(0)
	m.compileLatencyCount.Store(0)
	m.redrawLatencyNs.Store(0)
	m.redrawLatencyCount.Store(0)

	m.currentlyRunning.Store(0)
	m.watcherActive.Store(0)
}

// safeDivide performs safe division, returning 0 for divide by zero.
func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}

// defaultMetrics is a global metrics instance for convenience.
var defaultMetrics = NewMetrics()

// DefaultMetrics returns the global default Metrics instance.
// This can be used when a single application-wide metrics collector is sufficient.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
