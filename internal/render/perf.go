// This file implements frame timing statistics for the game loop. The
// public facade exports them through its expvar metrics.
package render

import (
	"sync/atomic"
	"time"
)

// FrameMetrics tracks frame timing statistics. All methods are safe for
// concurrent use; the game loop records while the metrics endpoint reads.
type FrameMetrics struct {
	frameCount    atomic.Int64
	totalTime     atomic.Int64 // nanoseconds
	lastFrameTime atomic.Int64 // nanoseconds
	lastFPS       atomic.Int64 // FPS * 1000
	periodFrames  atomic.Int64
	lastUpdate    atomic.Int64 // Unix nanos
	updatePeriod  time.Duration
}

// NewFrameMetrics creates a FrameMetrics recalculating FPS every
// updatePeriod (default one second).
func NewFrameMetrics(updatePeriod time.Duration) *FrameMetrics {
	if updatePeriod <= 0 {
		updatePeriod = time.Second
	}
	fm := &FrameMetrics{updatePeriod: updatePeriod}
	fm.lastUpdate.Store(time.Now().UnixNano())
	return fm
}

// RecordFrame records one frame with its duration. Called once per tick by
// the game loop.
func (fm *FrameMetrics) RecordFrame(frameTime time.Duration) {
	nanos := frameTime.Nanoseconds()
	fm.frameCount.Add(1)
	fm.totalTime.Add(nanos)
	fm.lastFrameTime.Store(nanos)
	fm.periodFrames.Add(1)

	now := time.Now().UnixNano()
	last := fm.lastUpdate.Load()
	elapsed := time.Duration(now - last)
	if elapsed >= fm.updatePeriod && fm.lastUpdate.CompareAndSwap(last, now) {
		frames := fm.periodFrames.Swap(0)
		if elapsed > 0 {
			fps := float64(frames) / elapsed.Seconds()
			fm.lastFPS.Store(int64(fps * 1000))
		}
	}
}

// FPS returns the most recently calculated frames per second.
func (fm *FrameMetrics) FPS() float64 {
	return float64(fm.lastFPS.Load()) / 1000
}

// FrameCount returns the total number of recorded frames.
func (fm *FrameMetrics) FrameCount() int64 {
	return fm.frameCount.Load()
}

// LastFrameTime returns the duration of the most recent frame.
func (fm *FrameMetrics) LastFrameTime() time.Duration {
	return time.Duration(fm.lastFrameTime.Load())
}

// AvgFrameTime returns the mean frame duration over all recorded frames.
func (fm *FrameMetrics) AvgFrameTime() time.Duration {
	count := fm.frameCount.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(fm.totalTime.Load() / count)
}
