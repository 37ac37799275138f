// This file implements dash pattern segmentation. Ebiten's vector package
// strokes solid lines only, so dashed strokes are split into alternating
// on/off segments before they reach StrokeLine.
package render

import (
	"math"

	"github.com/opd-ai/go-plotview/internal/plot"
)

// dashSegments walks a polyline and splits it into the visible segments of
// the given on/off pattern, in pixels. An empty or non-positive pattern
// returns the input as a single segment. An odd-length pattern repeats with
// phases swapped, matching the common canvas dash semantics.
func dashSegments(points []plot.Point, pattern []float64) [][]plot.Point {
	if len(points) < 2 {
		return nil
	}
	if !validDashPattern(pattern) {
		return [][]plot.Point{points}
	}

	// Odd patterns double up so on/off alternation stays consistent.
	if len(pattern)%2 == 1 {
		pattern = append(append([]float64{}, pattern...), pattern...)
	}

	var segments [][]plot.Point
	var current []plot.Point

	phase := 0        // index into pattern
	remain := pattern[0]
	on := true

	flush := func() {
		if len(current) >= 2 {
			segments = append(segments, current)
		}
		current = nil
	}

	for i := 1; i < len(points); i++ {
		p0, p1 := points[i-1], points[i]
		dx, dy := p1.X-p0.X, p1.Y-p0.Y
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}

		pos := 0.0
		for pos < length {
			step := math.Min(remain, length-pos)
			t0 := pos / length
			t1 := (pos + step) / length

			if on {
				start := plot.Point{X: p0.X + dx*t0, Y: p0.Y + dy*t0}
				end := plot.Point{X: p0.X + dx*t1, Y: p0.Y + dy*t1}
				if len(current) == 0 {
					current = append(current, start)
				}
				current = append(current, end)
			}

			pos += step
			remain -= step
			if remain <= 1e-9 {
				if on {
					flush()
				}
				on = !on
				phase = (phase + 1) % len(pattern)
				remain = pattern[phase]
			}
		}
	}
	flush()
	return segments
}

// validDashPattern reports whether the pattern produces dashes: at least
// one entry, all positive.
func validDashPattern(pattern []float64) bool {
	if len(pattern) == 0 {
		return false
	}
	for _, v := range pattern {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
