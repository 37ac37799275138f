package lua

import "errors"

var (
	// ErrPlotOutsideRun is returned when a script calls plot() while no
	// program run is in progress, such as from a coroutine that outlives
	// the chunk.
	ErrPlotOutsideRun = errors.New("plot called outside a program run")
)
