// Package grid manages the presentation state of the measurement grid:
// the active cell size, its visibility, and snapping of requested sizes to
// the standard set.
package grid

import (
	"math"
	"sort"
	"sync"
)

// StandardSizes are the standard physical grid pitches in meters, assuming
// a 1.0m image width. Read-only.
var StandardSizes = []float64{0.01, 0.02, 0.05, 0.1, 0.2, 0.25, 0.5}

// PreferredSize is the common 10-cell layout (1.0m / 10).
const PreferredSize = 0.1

// Service holds the current grid settings. Safe for concurrent use.
type Service struct {
	mu       sync.Mutex
	sizeM    float64
	showGrid bool
}

// State is a snapshot of the service's settings.
type State struct {
	SizeM         float64 `json:"size_m"`
	ShowGrid      bool    `json:"show_grid"`
	CellsPerMeter int     `json:"cells_per_meter"`
	Standard      bool    `json:"standard_size"`
}

// NewService returns a Service at the preferred 10-cell grid, hidden.
func NewService() *Service {
	return &Service{sizeM: PreferredSize}
}

// SetSize sets the grid size in meters, snapping toward standard sizes, and
// returns the adjusted value.
//
// A requested size within [0.095, 0.105] is forced to exactly 0.1. Otherwise
// the closest standard size wins when it is within 15% relative distance;
// failing that the request is rounded to the nearest 0.01. The final value
// is clamped to [0.01, 0.5].
func (s *Service) SetSize(sizeM float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sizeM >= 0.095 && sizeM <= 0.105 {
		s.sizeM = PreferredSize
		return s.sizeM
	}

	type candidate struct {
		dist float64
		size float64
	}
	candidates := make([]candidate, len(StandardSizes))
	for i, std := range StandardSizes {
		candidates[i] = candidate{dist: math.Abs(sizeM-std) / std, size: std}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].size < candidates[j].size
	})

	if candidates[0].dist <= 0.15 {
		sizeM = candidates[0].size
	} else {
		sizeM = math.Round(sizeM*100) / 100
	}

	s.sizeM = math.Max(0.01, math.Min(0.5, sizeM))
	return s.sizeM
}

// Size returns the current grid size in meters.
func (s *Service) Size() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sizeM
}

// Toggle flips grid visibility and returns the new state.
func (s *Service) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showGrid = !s.showGrid
	return s.showGrid
}

// Reset restores the preferred 10-cell grid and returns its size.
func (s *Service) Reset() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sizeM = PreferredSize
	return s.sizeM
}

// CellsPerMeter returns how many cells of the current size span one meter.
func (s *Service) CellsPerMeter() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(math.Round(1.0 / s.sizeM))
}

// IsStandardSize reports whether sizeM matches a standard grid size within
// a 1% relative tolerance.
func IsStandardSize(sizeM float64) bool {
	for _, std := range StandardSizes {
		if math.Abs(sizeM-std)/std < 0.01 {
			return true
		}
	}
	return false
}

// Snapshot returns the current state in one locked read.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		SizeM:         s.sizeM,
		ShowGrid:      s.showGrid,
		CellsPerMeter: int(math.Round(1.0 / s.sizeM)),
		Standard:      IsStandardSize(s.sizeM),
	}
}
