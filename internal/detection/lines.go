package detection

import (
	"image"
	"math"
	"sort"

	"github.com/draftscale/gridscan/internal/imaging"
)

// Segment is a detected line segment between two endpoints, in pixel
// coordinates. Segments are ephemeral: they exist only within one
// detection call.
type Segment struct {
	X1, Y1 float64
	X2, Y2 float64
}

// Length returns the euclidean length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(s.X2-s.X1, s.Y2-s.Y1)
}

// ExtractLines runs the line extraction stage: grayscale, blur, adaptive
// binarization, morphological closing, Canny edges and a probabilistic
// Hough transform. Segments shorter than HoughMinLineLength are discarded
// even if the transform reports them.
func (d *Detector) ExtractLines(img image.Image) []Segment {
	gray := imaging.Grayscale(img)
	blurred := imaging.GaussianBlur(gray, 2)
	binary := imaging.AdaptiveThreshold(blurred, 11, 2)
	closed := imaging.MorphClose(binary, 1)

	edges := cannyEdges(closed, d.params.CannyLow, d.params.CannyHigh)
	raw := houghSegments(edges, d.params.HoughThreshold, d.params.HoughMinLineLength, d.params.HoughMaxLineGap)

	segments := raw[:0]
	for _, s := range raw {
		if s.Length() >= float64(d.params.HoughMinLineLength) {
			segments = append(segments, s)
		}
	}
	return segments
}

// cannyEdges produces a thin boolean edge map from a preprocessed grayscale
// image: Sobel gradients, non-maximum suppression, then dual-threshold
// hysteresis. Thresholds are on the 0-255 scale.
func cannyEdges(gray *image.Gray, low, high int) [][]bool {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	intensity := make([][]float64, h)
	for y := 0; y < h; y++ {
		intensity[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			intensity[y][x] = float64(gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y) / 255.0
		}
	}

	sobelX := [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY := [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

	magnitude := make([][]float64, h)
	direction := make([][]float64, h)
	for y := 0; y < h; y++ {
		magnitude[y] = make([]float64, w)
		direction[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, h-1)
					px := clamp(x+kx, 0, w-1)
					gx += intensity[py][px] * sobelX[ky+1][kx+1]
					gy += intensity[py][px] * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression: keep only local maxima along the gradient
	// direction so edges thin to one pixel.
	suppressed := make([][]float64, h)
	for y := 0; y < h; y++ {
		suppressed[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			if y == 0 || y == h-1 || x == 0 || x == w-1 {
				continue
			}
			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[y][x-1], magnitude[y][x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[y-1][x+1], magnitude[y+1][x-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[y-1][x], magnitude[y+1][x]
			default:
				n1, n2 = magnitude[y-1][x-1], magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	lowT := float64(low) / 255.0
	highT := float64(high) / 255.0

	edges := make([][]bool, h)
	for y := 0; y < h; y++ {
		edges[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			v := suppressed[y][x]
			if v >= highT {
				edges[y][x] = true
			} else if v >= lowT {
				// Weak edge: keep only if touching a strong edge.
				for ky := -1; ky <= 1 && !edges[y][x]; ky++ {
					for kx := -1; kx <= 1; kx++ {
						py := clamp(y+ky, 0, h-1)
						px := clamp(x+kx, 0, w-1)
						if suppressed[py][px] >= highT {
							edges[y][x] = true
							break
						}
					}
				}
			}
		}
	}
	return edges
}

type pixel struct {
	x, y int
}

// houghSegments extracts line segments from an edge map using an
// accumulator over (rho, theta) at 1px / 1 degree resolution. Each peak is
// walked along its line direction; runs separated by more than maxGap are
// split into separate segments and runs shorter than minLength are dropped.
func houghSegments(edges [][]bool, voteThreshold, minLength, maxGap int) []Segment {
	h := len(edges)
	if h == 0 {
		return nil
	}
	w := len(edges[0])

	const numAngles = 180
	maxDist := int(math.Hypot(float64(w), float64(h))) + 1

	var points []pixel
	accumulator := make([][]int, 2*maxDist)
	for i := range accumulator {
		accumulator[i] = make([]int, numAngles)
	}

	sin := make([]float64, numAngles)
	cos := make([]float64, numAngles)
	for t := 0; t < numAngles; t++ {
		rad := float64(t) * math.Pi / 180
		sin[t] = math.Sin(rad)
		cos[t] = math.Cos(rad)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !edges[y][x] {
				continue
			}
			points = append(points, pixel{x, y})
			for t := 0; t < numAngles; t++ {
				rho := float64(x)*cos[t] + float64(y)*sin[t]
				idx := int(rho) + maxDist
				if idx >= 0 && idx < 2*maxDist {
					accumulator[idx][t]++
				}
			}
		}
	}

	type peak struct {
		rho   int
		theta int
		votes int
	}
	var peaks []peak

	for idx := 0; idx < 2*maxDist; idx++ {
		for t := 0; t < numAngles; t++ {
			votes := accumulator[idx][t]
			if votes < voteThreshold {
				continue
			}
			isMax := true
			for dr := -2; dr <= 2 && isMax; dr++ {
				for dt := -2; dt <= 2; dt++ {
					if dr == 0 && dt == 0 {
						continue
					}
					nr := idx + dr
					nt := (t + dt + numAngles) % numAngles
					if nr >= 0 && nr < 2*maxDist && accumulator[nr][nt] > votes {
						isMax = false
						break
					}
				}
			}
			if isMax {
				peaks = append(peaks, peak{rho: idx - maxDist, theta: t, votes: votes})
			}
		}
	}

	// Strongest peaks first; ties broken by position so results are
	// deterministic for identical inputs.
	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].votes != peaks[j].votes {
			return peaks[i].votes > peaks[j].votes
		}
		if peaks[i].rho != peaks[j].rho {
			return peaks[i].rho < peaks[j].rho
		}
		return peaks[i].theta < peaks[j].theta
	})

	const maxPeaks = 300
	const maxSegments = 500
	if len(peaks) > maxPeaks {
		peaks = peaks[:maxPeaks]
	}

	var segments []Segment
	for _, p := range peaks {
		if len(segments) >= maxSegments {
			break
		}
		cosA, sinA := cos[p.theta], sin[p.theta]
		rho := float64(p.rho)

		// Points within 2px of the ideal line, ordered by their projection
		// along the line direction.
		type projected struct {
			pt pixel
			t  float64
		}
		var onLine []projected
		for _, pt := range points {
			dist := math.Abs(float64(pt.x)*cosA + float64(pt.y)*sinA - rho)
			if dist < 2.0 {
				onLine = append(onLine, projected{pt: pt, t: -float64(pt.x)*sinA + float64(pt.y)*cosA})
			}
		}
		if len(onLine) < 2 {
			continue
		}
		sort.Slice(onLine, func(i, j int) bool {
			if onLine[i].t != onLine[j].t {
				return onLine[i].t < onLine[j].t
			}
			if onLine[i].pt.x != onLine[j].pt.x {
				return onLine[i].pt.x < onLine[j].pt.x
			}
			return onLine[i].pt.y < onLine[j].pt.y
		})

		start := 0
		for i := 1; i <= len(onLine); i++ {
			if i < len(onLine) && onLine[i].t-onLine[i-1].t <= float64(maxGap) {
				continue
			}
			a, b := onLine[start].pt, onLine[i-1].pt
			seg := Segment{
				X1: float64(a.x), Y1: float64(a.y),
				X2: float64(b.x), Y2: float64(b.y),
			}
			if seg.Length() >= float64(minLength) {
				segments = append(segments, seg)
			}
			start = i
		}
	}
	return segments
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
