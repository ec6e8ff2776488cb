package detection

import (
	"fmt"
	"image"
)

// Mode tags a result with the strategy that produced it.
type Mode string

const (
	// ModeFull means the full detection pipeline ran.
	ModeFull Mode = "full"

	// ModeFallback means the degraded fallback strategy ran instead of the
	// pipeline. Fallback results are placeholders, not measurements.
	ModeFallback Mode = "fallback"
)

// FailureKind names the reason a grid detection did not succeed.
type FailureKind string

const (
	// FailureInsufficientLines: fewer lines than the minimum needed for a
	// grid, either as raw segments or per axis after deduplication.
	FailureInsufficientLines FailureKind = "insufficient_lines"

	// FailureInconsistentGrid: lines were found but no axis produced a
	// spacing group with enough support.
	FailureInconsistentGrid FailureKind = "inconsistent_grid"

	// FailureProcessing: an unexpected internal error, converted to a
	// structured result at the call boundary.
	FailureProcessing FailureKind = "processing_error"
)

// GridResult is the outcome of one DetectGrid call.
//
// When Detected is false, Failure and Reason say why and the numeric fields
// are zero. When Detected is true, GridSizeM is the reconciled physical
// pitch and RawGridSizeM the unsnapped measurement.
type GridResult struct {
	Detected bool        `json:"detected"`
	Failure  FailureKind `json:"failure,omitempty"`
	Reason   string      `json:"reason,omitempty"`
	Mode     Mode        `json:"mode"`

	GridSizePx   float64 `json:"grid_size_px,omitempty"`
	GridSizeM    float64 `json:"grid_size_m,omitempty"`
	RawGridSizeM float64 `json:"raw_grid_size_m,omitempty"`
	CellsAcross  float64 `json:"cells_across,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`

	HorizontalLines   []float64 `json:"horizontal_lines,omitempty"`
	VerticalLines     []float64 `json:"vertical_lines,omitempty"`
	HorizontalSpacing float64   `json:"horizontal_spacing,omitempty"`
	VerticalSpacing   float64   `json:"vertical_spacing,omitempty"`

	ConsistencyScore  float64 `json:"consistency_score,omitempty"`
	StandardSizeScore float64 `json:"standard_size_score,omitempty"`
	NumLinesScore     float64 `json:"num_lines_score,omitempty"`
}

// DetectGrid estimates the measurement-grid pitch of an image.
//
// The image is only read, never mutated, and no state survives the call, so
// DetectGrid may be invoked concurrently. It never panics: internal failures
// are returned as a FailureProcessing result.
func (d *Detector) DetectGrid(img image.Image) (res *GridResult) {
	defer func() {
		if r := recover(); r != nil {
			res = &GridResult{
				Detected: false,
				Failure:  FailureProcessing,
				Reason:   fmt.Sprintf("internal error: %v", r),
				Mode:     ModeFull,
			}
		}
	}()

	if d.params.Degraded {
		return &GridResult{
			Detected: false,
			Failure:  FailureProcessing,
			Reason:   "grid detection unavailable in degraded mode",
			Mode:     ModeFallback,
		}
	}

	segments := d.ExtractLines(img)
	if len(segments) < d.params.MinLinesForGrid {
		return &GridResult{
			Detected: false,
			Failure:  FailureInsufficientLines,
			Reason:   "not enough lines detected",
			Mode:     ModeFull,
		}
	}

	horizontal, vertical := d.classifySegments(segments)
	if len(horizontal) < d.params.MinLinesForGrid || len(vertical) < d.params.MinLinesForGrid {
		return &GridResult{
			Detected: false,
			Failure:  FailureInsufficientLines,
			Reason:   "not enough consistent lines for a grid",
			Mode:     ModeFull,
		}
	}

	hGroups := groupSimilarSpacings(consecutiveSpacings(horizontal), d.params.SpacingTolerance)
	vGroups := groupSimilarSpacings(consecutiveSpacings(vertical), d.params.SpacingTolerance)

	hSpacing, hSupport := dominantSpacing(hGroups)
	vSpacing, vSupport := dominantSpacing(vGroups)

	// One axis may be subdivided (e.g. a ruler overlay); the smaller
	// recurring spacing is taken as the true cell pitch. An axis only
	// contributes a candidate when its dominant group has at least 3
	// members.
	var candidates []float64
	if hSupport >= 3 {
		candidates = append(candidates, hSpacing)
	}
	if vSupport >= 3 {
		candidates = append(candidates, vSpacing)
	}
	if len(candidates) == 0 {
		return &GridResult{
			Detected: false,
			Failure:  FailureInconsistentGrid,
			Reason:   "no consistent grid spacing found",
			Mode:     ModeFull,
		}
	}

	pitch := candidates[0]
	for _, c := range candidates[1:] {
		if c < pitch {
			pitch = c
		}
	}

	return d.reconcile(pitch, img.Bounds().Dx(), horizontal, vertical, hSpacing, vSpacing)
}
