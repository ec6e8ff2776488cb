package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"
)

func decodeOverlay(t *testing.T, res *OverlayResult) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("overlay is not valid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("overlay is not valid PNG: %v", err)
	}
	return img
}

func TestOverlay_DrawsLines(t *testing.T) {
	res, err := Overlay(newWhiteRGBA(100, 80), []float64{20, 40}, []float64{30}, nil, "#FF0000")
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	if res.Width != 100 || res.Height != 80 {
		t.Errorf("dimensions = %dx%d, want 100x80", res.Width, res.Height)
	}
	if res.LineColor != "#ff0000" {
		t.Errorf("line color = %q, want #ff0000", res.LineColor)
	}
	if res.BoxColor != "" {
		t.Errorf("box color = %q without a box", res.BoxColor)
	}

	img := decodeOverlay(t, res)

	r, g, b, _ := img.At(50, 20).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("pixel on horizontal line = (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(30, 60).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("pixel on vertical line = (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
	// Away from any line the sheet stays white.
	r, g, b, _ = img.At(50, 60).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("background pixel = (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func TestOverlay_DrawsBox(t *testing.T) {
	box := image.Rect(10, 10, 60, 50)
	res, err := Overlay(newWhiteRGBA(100, 80), nil, nil, &box, "#FF0000")
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	if res.BoxColor == "" {
		t.Error("box drawn but no box color reported")
	}
	if res.BoxColor == res.LineColor {
		t.Error("box color equals line color, should be hue-opposed")
	}

	img := decodeOverlay(t, res)

	// Box outline pixels differ from the white background.
	r, g, b, _ := img.At(30, 10).RGBA()
	if r>>8 == 255 && g>>8 == 255 && b>>8 == 255 {
		t.Error("top box edge not painted")
	}
	// Box interior stays untouched.
	r, g, b, _ = img.At(30, 30).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("box interior = (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func TestOverlay_SkipsOutOfRangeLines(t *testing.T) {
	res, err := Overlay(newWhiteRGBA(50, 50), []float64{-5, 200}, []float64{300}, nil, "#00FF00")
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}

	img := decodeOverlay(t, res)
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
				t.Fatalf("out-of-range line painted pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestOverlay_InvalidColor(t *testing.T) {
	if _, err := Overlay(newWhiteRGBA(10, 10), nil, nil, nil, "red"); err == nil {
		t.Error("expected error for non-hex color")
	}
}
