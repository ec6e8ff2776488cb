package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Downscale shrinks an image so neither dimension exceeds maxDim,
// preserving aspect ratio, and returns the applied scale factor. Images
// already within the limit are returned unchanged with scale 1.
//
// Detection results computed on the downscaled image must be mapped back by
// dividing pixel quantities by the returned scale.
func Downscale(img image.Image, maxDim int) (image.Image, float64) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img, 1.0
	}

	var scale float64
	if w >= h {
		scale = float64(maxDim) / float64(w)
	} else {
		scale = float64(maxDim) / float64(h)
	}

	// Round, don't truncate: 300*(300/900) is 99.999... in float.
	newW := int(float64(w)*scale + 0.5)
	newH := int(float64(h)*scale + 0.5)
	resized := imaging.Resize(img, newW, newH, imaging.Lanczos)

	// Report the exact factor, not the requested one, since integer
	// dimensions round.
	return resized, float64(resized.Bounds().Dx()) / float64(w)
}

// CropResult contains a cropped region encoded as base64 PNG.
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts the rectangle (x1,y1)-(x2,y2) from an image, optionally
// rescaling it, and returns it as base64 PNG. Used to zoom into a detected
// region for inspection.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*CropResult, error) {
	bounds := img.Bounds()
	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))
	if scale != 1.0 && scale > 0 {
		newW := int(float64(cropped.Bounds().Dx()) * scale)
		newH := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, newW, newH, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
