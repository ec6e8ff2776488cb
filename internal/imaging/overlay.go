package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// OverlayResult contains the source image with detection results painted on
// top, encoded as base64 PNG.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	LineColor   string `json:"line_color"`
	BoxColor    string `json:"box_color,omitempty"`
}

// Overlay renders detected grid lines and an optional content bounding box
// onto a copy of the image. horizontal holds y positions, vertical holds x
// positions, both in pixel coordinates of the image.
//
// lineColorHex is a "#RRGGBB" color for the grid lines; the content box is
// drawn in the hue-opposed color so the two stay distinguishable whatever
// the caller picks.
func Overlay(img image.Image, horizontal, vertical []float64, box *image.Rectangle, lineColorHex string) (*OverlayResult, error) {
	lineCol, err := colorful.Hex(lineColorHex)
	if err != nil {
		return nil, fmt.Errorf("invalid line color %q: %w", lineColorHex, err)
	}

	hue, sat, lum := lineCol.Hsl()
	boxCol := colorful.Hsl(hue+180, sat, lum)

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	lr, lg, lb := lineCol.RGB255()
	lineRGBA := color.RGBA{lr, lg, lb, 255}

	for _, y := range horizontal {
		yi := int(y + 0.5)
		if yi < 0 || yi >= h {
			continue
		}
		for x := 0; x < w; x++ {
			out.SetRGBA(x, yi, lineRGBA)
		}
	}
	for _, x := range vertical {
		xi := int(x + 0.5)
		if xi < 0 || xi >= w {
			continue
		}
		for y := 0; y < h; y++ {
			out.SetRGBA(xi, y, lineRGBA)
		}
	}

	result := &OverlayResult{
		Width:     w,
		Height:    h,
		MimeType:  "image/png",
		LineColor: lineCol.Hex(),
	}

	if box != nil {
		br, bg, bb := boxCol.Clamped().RGB255()
		boxRGBA := color.RGBA{br, bg, bb, 255}
		drawRectOutline(out, *box, boxRGBA)
		result.BoxColor = boxCol.Clamped().Hex()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode overlay image: %w", err)
	}
	result.ImageBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
	return result, nil
}

// drawRectOutline paints a 1px rectangle outline, clipped to the image.
func drawRectOutline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}
