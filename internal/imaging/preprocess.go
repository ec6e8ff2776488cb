package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Grayscale converts an image to a single-channel intensity image.
// Color and alpha information is flattened using bild's luminance weights.
func Grayscale(img image.Image) *image.Gray {
	return flattenToGray(effect.Grayscale(img))
}

// GaussianBlur applies a Gaussian blur to a grayscale image. A radius of 2
// corresponds to the 5x5 kernel used ahead of binarization.
func GaussianBlur(gray *image.Gray, radius float64) *image.Gray {
	return flattenToGray(blur.Gaussian(gray, radius))
}

// AdaptiveThreshold binarizes a grayscale image against a Gaussian-weighted
// local mean. A pixel becomes foreground (255) when it is darker than its
// neighborhood mean by more than bias; everything else is background (0).
//
// Local rather than global thresholding is required because illumination
// varies across a photographed or scanned sheet. block is the neighborhood
// size and must be odd.
func AdaptiveThreshold(gray *image.Gray, block int, bias float64) *image.Gray {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	kernel := gaussianKernel1D(block)
	half := block / 2

	// Separable convolution: horizontal pass, then vertical.
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -half; k <= half; k++ {
				sx := clampInt(x+k, 0, w-1)
				sum += float64(gray.GrayAt(bounds.Min.X+sx, bounds.Min.Y+y).Y) * kernel[k+half]
			}
			tmp[y*w+x] = sum
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var mean float64
			for k := -half; k <= half; k++ {
				sy := clampInt(y+k, 0, h-1)
				mean += tmp[sy*w+x] * kernel[k+half]
			}
			v := float64(gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			if v < mean-bias {
				out.Pix[out.PixOffset(x, y)] = 255
			}
		}
	}
	return out
}

// MorphClose performs a morphological closing (dilate then erode) on a
// binary image. A radius of 1 uses a 3x3 structuring element, enough to
// bridge 1-2 pixel breaks in nearly continuous lines.
func MorphClose(bin *image.Gray, radius float64) *image.Gray {
	return flattenToGray(effect.Erode(effect.Dilate(bin, radius), radius))
}

// OtsuLevel computes the global threshold that maximizes between-class
// variance of the grayscale histogram.
func OtsuLevel(gray *image.Gray) uint8 {
	var hist [256]int
	bounds := gray.Bounds()
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
			total++
		}
	}
	if total == 0 {
		return 0
	}

	var sumAll float64
	for i, c := range hist {
		sumAll += float64(i) * float64(c)
	}

	var sumBg float64
	var weightBg int
	bestLevel := uint8(0)
	bestVariance := -1.0

	for level := 0; level < 256; level++ {
		weightBg += hist[level]
		if weightBg == 0 {
			continue
		}
		weightFg := total - weightBg
		if weightFg == 0 {
			break
		}
		sumBg += float64(level) * float64(hist[level])

		meanBg := sumBg / float64(weightBg)
		meanFg := (sumAll - sumBg) / float64(weightFg)
		diff := meanBg - meanFg
		variance := float64(weightBg) * float64(weightFg) * diff * diff
		if variance > bestVariance {
			bestVariance = variance
			bestLevel = uint8(level)
		}
	}
	return bestLevel
}

// MeanIntensity returns the average gray value of the image.
func MeanIntensity(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	n := bounds.Dx() * bounds.Dy()
	if n == 0 {
		return 0
	}
	var sum float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sum += float64(gray.GrayAt(x, y).Y)
		}
	}
	return sum / float64(n)
}

// Binarize thresholds a grayscale image at level. With inverted=false,
// pixels above level become foreground; with inverted=true, pixels at or
// below level do. Foreground is 255.
func Binarize(gray *image.Gray, level uint8, inverted bool) *image.Gray {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y
			fg := v > level
			if inverted {
				fg = v <= level
			}
			if fg {
				out.Pix[out.PixOffset(x, y)] = 255
			}
		}
	}
	return out
}

// flattenToGray copies the red channel of an already-grayscale RGBA image
// into a compact *image.Gray with origin (0,0).
func flattenToGray(rgba *image.RGBA) *image.Gray {
	bounds := rgba.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[out.PixOffset(x, y)] = rgba.Pix[rgba.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)]
		}
	}
	return out
}

// gaussianKernel1D builds a normalized 1D Gaussian kernel of odd size,
// using the same sigma heuristic as common vision libraries.
func gaussianKernel1D(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	half := size / 2
	kernel := make([]float64, size)
	var sum float64
	for i := -half; i <= half; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+half] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
