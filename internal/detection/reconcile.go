package detection

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// reconcile converts a pixel pitch into a physical grid size and scores the
// detection. The image's pixel width is assumed to span exactly 1.0 physical
// unit (meter), which is how the measurement sheets this pipeline was built
// for are printed.
func (d *Detector) reconcile(pitchPx float64, widthPx int, horizontal, vertical []float64, hSpacing, vSpacing float64) *GridResult {
	rawSizeM := pitchPx / float64(widthPx)
	cellsAcross := float64(widthPx) / pitchPx

	consistency := (spacingConsistency(horizontal, hSpacing) + spacingConsistency(vertical, vSpacing)) / 2
	standardSize := d.standardSizeScore(rawSizeM)
	numLines := math.Min(1.0, float64(len(horizontal)+len(vertical))/30.0)

	confidence := d.params.ConsistencyWeight*consistency +
		d.params.StandardSizeWeight*standardSize +
		d.params.NumLinesWeight*numLines

	sizeM, confidence := d.snapGridSize(rawSizeM, cellsAcross, confidence)

	return &GridResult{
		Detected:          true,
		Mode:              ModeFull,
		GridSizePx:        pitchPx,
		GridSizeM:         sizeM,
		RawGridSizeM:      rawSizeM,
		CellsAcross:       cellsAcross,
		Confidence:        confidence,
		HorizontalLines:   horizontal,
		VerticalLines:     vertical,
		HorizontalSpacing: hSpacing,
		VerticalSpacing:   vSpacing,
		ConsistencyScore:  consistency,
		StandardSizeScore: standardSize,
		NumLinesScore:     numLines,
	}
}

// spacingConsistency scores how evenly the lines are spaced against the
// expected spacing: the mean relative deviation, capped at 1, inverted to a
// 0-1 score.
func spacingConsistency(positions []float64, expected float64) float64 {
	if len(positions) < 2 || expected <= 0 {
		return 0
	}
	errors := make([]float64, 0, len(positions)-1)
	for i := 1; i < len(positions); i++ {
		spacing := positions[i] - positions[i-1]
		errors = append(errors, math.Abs(spacing-expected)/expected)
	}
	avgError := math.Min(1.0, stat.Mean(errors, nil))
	return 1.0 - avgError
}

// standardSizeScore scores proximity of the raw physical pitch to the
// standard sizes, with extra weight for the preferred size.
func (d *Detector) standardSizeScore(rawSizeM float64) float64 {
	distToPreferred := math.Abs(rawSizeM-d.params.PreferredGridSize) / d.params.PreferredGridSize
	if distToPreferred < 0.1 {
		return 1.0 - distToPreferred
	}

	minDist := math.Inf(1)
	for _, std := range d.params.StandardGridSizes {
		dist := math.Abs(rawSizeM-std) / std
		if dist < minDist {
			minDist = dist
		}
	}
	return math.Max(0, 1.0-minDist)
}

// snapGridSize resolves the final grid size through an ordered sequence of
// guarded overrides; once a branch matches, later ones never apply. Common
// "nice" layouts (10, 20 or 5 cells across the reference width) are forced
// over raw numeric fidelity, with a confidence floor that never lowers an
// already-higher score. The result is always clamped to [0.01, 0.5].
func (d *Detector) snapGridSize(rawSizeM, cellsAcross, confidence float64) (float64, float64) {
	var sizeM float64
	switch {
	case cellsAcross >= 9 && cellsAcross <= 11:
		sizeM = 0.1
		confidence = math.Max(confidence, 0.9)
	case cellsAcross >= 19 && cellsAcross <= 21:
		sizeM = 0.05
		confidence = math.Max(confidence, 0.85)
	case cellsAcross >= 4.5 && cellsAcross <= 5.5:
		sizeM = 0.2
		confidence = math.Max(confidence, 0.85)
	default:
		closest := d.params.StandardGridSizes[0]
		for _, std := range d.params.StandardGridSizes[1:] {
			if math.Abs(std-rawSizeM) < math.Abs(closest-rawSizeM) {
				closest = std
			}
		}
		if math.Abs(rawSizeM-closest)/closest < 0.15 {
			sizeM = closest
		} else {
			sizeM = math.Round(rawSizeM*100) / 100
		}
	}

	sizeM = math.Max(0.01, math.Min(0.5, sizeM))
	return sizeM, confidence
}
