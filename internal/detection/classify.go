package detection

import (
	"math"
	"sort"
)

// classifySegments buckets segments into horizontal and vertical sets by
// angle and reduces each to a single axis position: horizontal segments
// contribute their mean y, vertical segments their mean x. Segments outside
// the angle tolerance of both axes are diagonal noise and dropped, as are
// short fragments that survived extraction.
//
// Both returned position lists are sorted ascending and deduplicated.
func (d *Detector) classifySegments(segments []Segment) (horizontal, vertical []float64) {
	for _, s := range segments {
		if s.Length() < float64(d.params.HoughMinLineLength) {
			continue
		}

		var angle float64
		if s.X2 == s.X1 {
			angle = 90
		} else {
			angle = math.Abs(math.Atan2(s.Y2-s.Y1, s.X2-s.X1) * 180 / math.Pi)
		}

		switch {
		case angle < d.params.AngleTolerance || angle > 180-d.params.AngleTolerance:
			horizontal = append(horizontal, (s.Y1+s.Y2)/2)
		case math.Abs(angle-90) < d.params.AngleTolerance:
			vertical = append(vertical, (s.X1+s.X2)/2)
		}
	}

	sort.Float64s(horizontal)
	sort.Float64s(vertical)

	return dedupPositions(horizontal, d.params.DuplicateLineTolerance),
		dedupPositions(vertical, d.params.DuplicateLineTolerance)
}

// dedupPositions collapses near-duplicate line positions. The scan is a
// greedy single pass over the sorted input: a position is kept only when it
// is at least tolerance away from the last kept position, so of two
// positions closer than the tolerance the earlier one always survives.
// This greedy semantics is load-bearing for boundary-tolerance inputs and
// must not be replaced with a globally optimal clustering.
func dedupPositions(sorted []float64, tolerance float64) []float64 {
	if len(sorted) == 0 {
		return nil
	}
	kept := []float64{sorted[0]}
	for _, p := range sorted[1:] {
		if p-kept[len(kept)-1] >= tolerance {
			kept = append(kept, p)
		}
	}
	return kept
}
