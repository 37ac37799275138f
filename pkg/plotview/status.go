package plotview

import "time"

// Status represents the current state of a Viewer instance.
type Status struct {
	// Running indicates if the instance is currently active.
	Running bool
	// StartTime is when the instance was last started (zero if never started).
	StartTime time.Time
	// ReloadCount is the number of script reloads since last start.
	ReloadCount uint64
	// LastError is the most recent error encountered (nil if none).
	LastError error
	// ScriptSource describes the script source (file path, "embedded" or "reader").
	ScriptSource string
}

// ErrorHandler is a callback for runtime errors.
// It is called asynchronously when errors occur during operation.
// Do not block in the handler; perform only quick, non-blocking operations.
type ErrorHandler func(err error)

// EventHandler is a callback for lifecycle events.
// It is called asynchronously; do not block in the handler.
type EventHandler func(event Event)

// Event represents a lifecycle event.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Message   string
}

// EventType enumerates lifecycle event types.
// The underlying integer values are implementation details and should not
// be relied upon for serialization. Use the constant names for comparison.
type EventType int

const (
	// EventStarted is emitted when the instance starts successfully.
	EventStarted EventType = iota
	// EventStopped is emitted when the instance stops.
	EventStopped
	// EventRestarted is emitted after a successful restart.
	EventRestarted
	// EventScriptReloaded is emitted when the plot script is hot-swapped.
	EventScriptReloaded
	// EventPlotChanged is emitted on each incremental view change while a
	// pan or zoom gesture is in progress.
	EventPlotChanged
	// EventPlotSettled is emitted once a gesture or a script update has
	// fully completed.
	EventPlotSettled
	// EventError is emitted when a recoverable error occurs.
	EventError
)

// String returns a human-readable representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventRestarted:
		return "restarted"
	case EventScriptReloaded:
		return "script_reloaded"
	case EventPlotChanged:
		return "plot_changed"
	case EventPlotSettled:
		return "plot_settled"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
