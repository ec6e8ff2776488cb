package detection

import (
	"image"

	"github.com/draftscale/gridscan/internal/imaging"
)

// Bounds is a rectangular bounding box in pixel coordinates, top-left
// inclusive, bottom-right exclusive.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// ContentResult is the outcome of one DetectContent call. A blank image is
// a normal empty result (Found=false), not an error.
type ContentResult struct {
	Found  bool    `json:"found"`
	Bounds *Bounds `json:"bounds,omitempty"`
	Mode   Mode    `json:"mode"`
}

// DetectContent finds the bounding box of the significant content in an
// image: Otsu binarization (direction picked from the mean intensity, so
// both light-on-dark and dark-on-light sheets work), external contour
// extraction, an area filter against noise, and a union of the surviving
// contours' boxes.
func (d *Detector) DetectContent(img image.Image) (res *ContentResult) {
	defer func() {
		if recover() != nil {
			res = &ContentResult{Found: false, Mode: ModeFull}
		}
	}()

	if d.params.Degraded {
		return d.fallbackContent(img)
	}

	gray := imaging.Grayscale(img)
	level := imaging.OtsuLevel(gray)

	// Light background: content is the dark side of the threshold.
	inverted := imaging.MeanIntensity(gray) > 127
	mask := imaging.Binarize(gray, level, inverted)

	bounds := mask.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	minArea := float64(w*h) * d.params.MinContourAreaFraction

	var union *Bounds
	for _, c := range findContours(mask) {
		if float64(c.area) < minArea {
			continue
		}
		if union == nil {
			b := c.box
			union = &b
			continue
		}
		if c.box.X1 < union.X1 {
			union.X1 = c.box.X1
		}
		if c.box.Y1 < union.Y1 {
			union.Y1 = c.box.Y1
		}
		if c.box.X2 > union.X2 {
			union.X2 = c.box.X2
		}
		if c.box.Y2 > union.Y2 {
			union.Y2 = c.box.Y2
		}
	}

	if union == nil {
		return &ContentResult{Found: false, Mode: ModeFull}
	}
	return &ContentResult{Found: true, Bounds: union, Mode: ModeFull}
}

// fallbackContent returns the degraded-mode stub: a centered box leaving a
// 10% margin on every side.
func (d *Detector) fallbackContent(img image.Image) *ContentResult {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	marginX := w / 10
	marginY := h / 10
	return &ContentResult{
		Found: true,
		Bounds: &Bounds{
			X1: marginX,
			Y1: marginY,
			X2: w - marginX,
			Y2: h - marginY,
		},
		Mode: ModeFallback,
	}
}

// contour is one external connected component of the foreground mask.
type contour struct {
	area int
	box  Bounds
}

// findContours groups foreground pixels into 8-connected components with an
// iterative flood fill, tracking each component's pixel count and bounding
// box. Components are emitted in scan order, which keeps results
// deterministic.
func findContours(mask *image.Gray) []contour {
	bounds := mask.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	visited := make([]bool, w*h)
	fg := func(x, y int) bool {
		return mask.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y > 127
	}

	var contours []contour
	var stack []pixel

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if visited[y*w+x] || !fg(x, y) {
				continue
			}

			c := contour{box: Bounds{X1: x, Y1: y, X2: x + 1, Y2: y + 1}}
			stack = append(stack[:0], pixel{x, y})
			visited[y*w+x] = true

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				c.area++
				if p.x < c.box.X1 {
					c.box.X1 = p.x
				}
				if p.y < c.box.Y1 {
					c.box.Y1 = p.y
				}
				if p.x+1 > c.box.X2 {
					c.box.X2 = p.x + 1
				}
				if p.y+1 > c.box.Y2 {
					c.box.Y2 = p.y + 1
				}

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := p.x+dx, p.y+dy
						if nx < 0 || nx >= w || ny < 0 || ny >= h {
							continue
						}
						if visited[ny*w+nx] || !fg(nx, ny) {
							continue
						}
						visited[ny*w+nx] = true
						stack = append(stack, pixel{nx, ny})
					}
				}
			}

			contours = append(contours, c)
		}
	}
	return contours
}
