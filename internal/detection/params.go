package detection

// Params holds the tunable parameters for grid and content detection.
//
// The zero value is not useful; start from DefaultParams and adjust fields
// as needed. A Detector treats its Params as immutable after construction,
// which is what makes concurrent detection calls safe.
type Params struct {
	// MinContourAreaFraction is the minimum fraction of total image area a
	// contour must cover to count as content (default 0.01, i.e. 1%).
	MinContourAreaFraction float64

	// CannyLow and CannyHigh are the hysteresis thresholds (0-255) for the
	// edge detection stage.
	CannyLow  int
	CannyHigh int

	// HoughThreshold is the minimum accumulator vote count for a line peak.
	HoughThreshold int

	// HoughMinLineLength is the minimum segment length in pixels. Shorter
	// segments are discarded even if the transform reports them.
	HoughMinLineLength int

	// HoughMaxLineGap is the largest gap in pixels bridged within one segment.
	HoughMaxLineGap int

	// AngleTolerance is the deviation in degrees from 0/90/180 within which
	// a segment is classified as horizontal or vertical.
	AngleTolerance float64

	// SpacingTolerance is the relative difference under which two line
	// spacings are grouped together (0.2 = 20%).
	SpacingTolerance float64

	// MinLinesForGrid is the minimum number of lines per axis (and of raw
	// segments overall) required before spacing estimation is attempted.
	MinLinesForGrid int

	// DuplicateLineTolerance is the minimum pixel distance between two kept
	// line positions on the same axis.
	DuplicateLineTolerance float64

	// StandardGridSizes are the physical grid pitches, in meters, that the
	// reconciler snaps toward. Must be sorted ascending. Never mutated.
	StandardGridSizes []float64

	// PreferredGridSize is the most common layout (0.1m = 10 cells across
	// the 1.0m reference width) and gets preferential scoring.
	PreferredGridSize float64

	// Confidence weights. They must sum to 1.0.
	ConsistencyWeight  float64
	StandardSizeWeight float64
	NumLinesWeight     float64

	// Degraded forces the fallback strategy: content detection returns a
	// centered box with fixed margins and grid detection reports
	// not-detected. Results are tagged with ModeFallback so callers can
	// distinguish a stub from a real detection.
	Degraded bool
}

// DefaultParams returns the parameter set the detection pipeline was tuned
// with. The cascade thresholds in the reconciler assume these values.
func DefaultParams() Params {
	return Params{
		MinContourAreaFraction: 0.01,
		CannyLow:               50,
		CannyHigh:              150,
		HoughThreshold:         50,
		HoughMinLineLength:     50,
		HoughMaxLineGap:        10,
		AngleTolerance:         2,
		SpacingTolerance:       0.2,
		MinLinesForGrid:        4,
		DuplicateLineTolerance: 10,
		StandardGridSizes:      []float64{0.01, 0.02, 0.05, 0.1, 0.2, 0.25, 0.5},
		PreferredGridSize:      0.1,
		ConsistencyWeight:      0.4,
		StandardSizeWeight:     0.4,
		NumLinesWeight:         0.2,
	}
}

// Detector runs grid and content detection with a fixed parameter set.
//
// A Detector is stateless apart from its read-only parameters, so a single
// instance may be shared across goroutines.
type Detector struct {
	params Params
}

// New creates a Detector with the given parameters.
func New(params Params) *Detector {
	return &Detector{params: params}
}

// NewDefault creates a Detector with DefaultParams.
func NewDefault() *Detector {
	return New(DefaultParams())
}

// Params returns a copy of the detector's parameters.
func (d *Detector) Params() Params {
	return d.params
}
