package detection

import (
	"math"
	"math/rand"
	"testing"
)

func TestSnapGridSize_TenCells(t *testing.T) {
	d := NewDefault()

	// Anything that looks like a 10-cell layout is forced to 0.1m with a
	// confidence floor of 0.9, even when the raw size says otherwise.
	size, conf := d.snapGridSize(0.096, 10.4, 0.5)
	if size != 0.1 {
		t.Errorf("size = %v, want 0.1", size)
	}
	if conf < 0.9 {
		t.Errorf("confidence = %v, want >= 0.9", conf)
	}
}

func TestSnapGridSize_CellCountBeatsRawDistance(t *testing.T) {
	d := NewDefault()

	// Raw 0.19 is numerically closest to the 0.2 standard size, but the
	// cell-count branch has priority.
	size, conf := d.snapGridSize(0.19, 10.4, 0.5)
	if size != 0.1 {
		t.Errorf("size = %v, want 0.1 (cell-count branch wins)", size)
	}
	if conf < 0.9 {
		t.Errorf("confidence = %v, want >= 0.9", conf)
	}
}

func TestSnapGridSize_FloorNeverLowers(t *testing.T) {
	d := NewDefault()
	_, conf := d.snapGridSize(0.1, 10, 0.95)
	if conf != 0.95 {
		t.Errorf("confidence = %v, want 0.95 (floor must not lower a higher score)", conf)
	}
}

func TestSnapGridSize_TwentyCells(t *testing.T) {
	d := NewDefault()
	size, conf := d.snapGridSize(0.052, 19.2, 0.4)
	if size != 0.05 {
		t.Errorf("size = %v, want 0.05", size)
	}
	if conf < 0.85 {
		t.Errorf("confidence = %v, want >= 0.85", conf)
	}
}

func TestSnapGridSize_FiveCells(t *testing.T) {
	d := NewDefault()
	size, conf := d.snapGridSize(0.21, 4.8, 0.4)
	if size != 0.2 {
		t.Errorf("size = %v, want 0.2", size)
	}
	if conf < 0.85 {
		t.Errorf("confidence = %v, want >= 0.85", conf)
	}
}

func TestSnapGridSize_OrderedCascade(t *testing.T) {
	d := NewDefault()

	// Boundary values belong to the first matching branch.
	size, _ := d.snapGridSize(0.09, 9, 0.5)
	if size != 0.1 {
		t.Errorf("cells=9 snapped to %v, want 0.1", size)
	}
	size, _ = d.snapGridSize(0.05, 21, 0.5)
	if size != 0.05 {
		t.Errorf("cells=21 snapped to %v, want 0.05", size)
	}
	size, _ = d.snapGridSize(0.2, 5.5, 0.5)
	if size != 0.2 {
		t.Errorf("cells=5.5 snapped to %v, want 0.2", size)
	}
}

func TestSnapGridSize_StandardSnap(t *testing.T) {
	d := NewDefault()

	// Outside the cell-count branches: snap to the closest standard size
	// when within 15% of it.
	size, conf := d.snapGridSize(0.26, 3.8, 0.7)
	if size != 0.25 {
		t.Errorf("size = %v, want 0.25", size)
	}
	if conf != 0.7 {
		t.Errorf("confidence changed to %v in the default branch", conf)
	}
}

func TestSnapGridSize_RoundFallback(t *testing.T) {
	d := NewDefault()

	// 0.34 is more than 15% from every standard size: round to 0.01.
	size, _ := d.snapGridSize(0.34, 2.9, 0.5)
	if math.Abs(size-0.34) > 1e-9 {
		t.Errorf("size = %v, want 0.34", size)
	}
}

func TestSnapGridSize_Clamp(t *testing.T) {
	d := NewDefault()

	size, _ := d.snapGridSize(0.003, 333, 0.5)
	if size != 0.01 {
		t.Errorf("size = %v, want lower clamp 0.01", size)
	}
	size, _ = d.snapGridSize(0.9, 1.1, 0.5)
	if size != 0.5 {
		t.Errorf("size = %v, want upper clamp 0.5", size)
	}
}

func TestSpacingConsistency_Perfect(t *testing.T) {
	score := spacingConsistency([]float64{0, 60, 120, 180, 240}, 60)
	if score != 1.0 {
		t.Errorf("perfectly even spacing scored %v, want 1.0", score)
	}
}

func TestSpacingConsistency_Degenerate(t *testing.T) {
	if score := spacingConsistency([]float64{100}, 60); score != 0 {
		t.Errorf("single position scored %v, want 0", score)
	}
	if score := spacingConsistency([]float64{0, 60}, 0); score != 0 {
		t.Errorf("zero expected spacing scored %v, want 0", score)
	}
}

func TestSpacingConsistency_CappedAtZero(t *testing.T) {
	// Wildly wrong spacing: the mean relative error caps at 1, so the score
	// bottoms out at 0 instead of going negative.
	score := spacingConsistency([]float64{0, 500, 1000}, 10)
	if score != 0 {
		t.Errorf("score = %v, want 0", score)
	}
}

func TestStandardSizeScore(t *testing.T) {
	d := NewDefault()

	if score := d.standardSizeScore(0.1); score != 1.0 {
		t.Errorf("exact preferred size scored %v, want 1.0", score)
	}
	// 0.102 is within 10% of preferred: scored against preferred only.
	score := d.standardSizeScore(0.102)
	if math.Abs(score-0.98) > 1e-9 {
		t.Errorf("near-preferred scored %v, want 0.98", score)
	}
	// Exactly on another standard size scores 1.0 through the generic path.
	if score := d.standardSizeScore(0.05); score != 1.0 {
		t.Errorf("exact standard size scored %v, want 1.0", score)
	}
	// Far from everything scores low but never negative.
	if score := d.standardSizeScore(0.37); score < 0 {
		t.Errorf("score went negative: %v", score)
	}
}

func TestReconcile_TenCellGrid(t *testing.T) {
	d := NewDefault()

	positions := make([]float64, 10)
	for i := range positions {
		positions[i] = float64(30 + i*60)
	}

	res := d.reconcile(60, 600, positions, positions, 60, 60)

	if !res.Detected {
		t.Fatal("reconcile returned not-detected")
	}
	if res.Mode != ModeFull {
		t.Errorf("mode = %v, want full", res.Mode)
	}
	if res.GridSizeM != 0.1 {
		t.Errorf("grid size = %v, want 0.1", res.GridSizeM)
	}
	if math.Abs(res.RawGridSizeM-0.1) > 1e-9 {
		t.Errorf("raw grid size = %v, want 0.1", res.RawGridSizeM)
	}
	if math.Abs(res.CellsAcross-10) > 1e-9 {
		t.Errorf("cells across = %v, want 10", res.CellsAcross)
	}
	if res.Confidence < 0.9 {
		t.Errorf("confidence = %v, want >= 0.9", res.Confidence)
	}
	if res.ConsistencyScore != 1.0 {
		t.Errorf("consistency = %v, want 1.0 for even spacing", res.ConsistencyScore)
	}
	// 20 lines total out of the 30 needed for a full score.
	if math.Abs(res.NumLinesScore-20.0/30.0) > 1e-9 {
		t.Errorf("num lines score = %v, want %v", res.NumLinesScore, 20.0/30.0)
	}
}

func TestReconcile_ConfidenceAndSizeRanges(t *testing.T) {
	d := NewDefault()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		width := 200 + rng.Intn(4000)
		pitch := 10 + rng.Float64()*float64(width)/4

		n := 4 + rng.Intn(20)
		positions := make([]float64, n)
		pos := rng.Float64() * 50
		for j := range positions {
			positions[j] = pos
			pos += pitch * (0.8 + rng.Float64()*0.4)
		}

		res := d.reconcile(pitch, width, positions, positions, pitch, pitch)

		if res.Confidence < 0 || res.Confidence > 1 {
			t.Fatalf("iteration %d: confidence %v out of [0,1] (pitch=%v width=%d)", i, res.Confidence, pitch, width)
		}
		if res.GridSizeM < 0.01 || res.GridSizeM > 0.5 {
			t.Fatalf("iteration %d: grid size %v out of [0.01,0.5]", i, res.GridSizeM)
		}
	}
}
