package detection

import (
	"image"
	"image/color"
	"testing"
)

// drawFilledRect paints a solid rectangle, top-left inclusive, bottom-right
// exclusive.
func drawFilledRect(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			img.Set(x, y, c)
		}
	}
}

func TestDetectContent_DarkOnLight(t *testing.T) {
	d := NewDefault()
	img := newSheetImage(100, 100)
	drawFilledRect(img, 20, 30, 60, 80, color.Black)

	res := d.DetectContent(img)

	if !res.Found {
		t.Fatal("content not found")
	}
	if res.Mode != ModeFull {
		t.Errorf("mode = %v, want full", res.Mode)
	}
	b := res.Bounds
	if b.X1 != 20 || b.Y1 != 30 || b.X2 != 60 || b.Y2 != 80 {
		t.Errorf("bounds = %+v, want (20,30)-(60,80)", b)
	}
}

func TestDetectContent_LightOnDark(t *testing.T) {
	// Dark sheet with light content: the binarization direction flips based
	// on mean intensity, so the same call works.
	d := NewDefault()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	drawFilledRect(img, 0, 0, 100, 100, color.Black)
	drawFilledRect(img, 10, 10, 50, 40, color.White)

	res := d.DetectContent(img)

	if !res.Found {
		t.Fatal("content not found on dark sheet")
	}
	b := res.Bounds
	if b.X1 != 10 || b.Y1 != 10 || b.X2 != 50 || b.Y2 != 40 {
		t.Errorf("bounds = %+v, want (10,10)-(50,40)", b)
	}
}

func TestDetectContent_BlankImage(t *testing.T) {
	d := NewDefault()
	res := d.DetectContent(newSheetImage(100, 100))

	if res.Found {
		t.Errorf("blank image reported content at %+v", res.Bounds)
	}
	if res.Bounds != nil {
		t.Errorf("not-found result carries bounds %+v", res.Bounds)
	}
	if res.Mode != ModeFull {
		t.Errorf("mode = %v, want full", res.Mode)
	}
}

func TestDetectContent_NoiseFiltered(t *testing.T) {
	// A 3x3 speck is 9px of a 100x100 image, under the 1% area floor.
	d := NewDefault()
	img := newSheetImage(100, 100)
	drawFilledRect(img, 50, 50, 53, 53, color.Black)

	res := d.DetectContent(img)
	if res.Found {
		t.Errorf("sub-threshold speck reported as content at %+v", res.Bounds)
	}
}

func TestDetectContent_UnionOfBlobs(t *testing.T) {
	// Two separate blobs, each above the area floor: the result is the
	// union of their boxes, including the empty space between them.
	d := NewDefault()
	img := newSheetImage(100, 100)
	drawFilledRect(img, 10, 10, 30, 30, color.Black) // 400px = 4%
	drawFilledRect(img, 60, 60, 90, 90, color.Black) // 900px = 9%

	res := d.DetectContent(img)

	if !res.Found {
		t.Fatal("content not found")
	}
	b := res.Bounds
	if b.X1 != 10 || b.Y1 != 10 || b.X2 != 90 || b.Y2 != 90 {
		t.Errorf("bounds = %+v, want union (10,10)-(90,90)", b)
	}
}

func TestDetectContent_Degraded(t *testing.T) {
	params := DefaultParams()
	params.Degraded = true
	d := New(params)

	res := d.DetectContent(newSheetImage(200, 100))

	if !res.Found {
		t.Fatal("degraded mode returned no fallback box")
	}
	if res.Mode != ModeFallback {
		t.Errorf("mode = %v, want fallback", res.Mode)
	}
	// Centered box with a 10% margin on each side.
	b := res.Bounds
	if b.X1 != 20 || b.Y1 != 10 || b.X2 != 180 || b.Y2 != 90 {
		t.Errorf("fallback bounds = %+v, want (20,10)-(180,90)", b)
	}
}

func TestDetectContent_RecoversFromPanic(t *testing.T) {
	d := NewDefault()
	res := d.DetectContent(nil)

	if res.Found {
		t.Error("nil image reported content")
	}
}

func TestFindContours(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 20, 20))
	// Two components: a 4x4 block and an L-shape connected diagonally,
	// which 8-connectivity joins into one.
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			mask.SetGray(x, y, color.Gray{255})
		}
	}
	mask.SetGray(10, 10, color.Gray{255})
	mask.SetGray(11, 11, color.Gray{255}) // diagonal neighbor
	mask.SetGray(12, 11, color.Gray{255})

	contours := findContours(mask)
	if len(contours) != 2 {
		t.Fatalf("expected 2 contours, got %d", len(contours))
	}

	// Scan order: the block at (2,2) comes first.
	if contours[0].area != 16 {
		t.Errorf("first contour area = %d, want 16", contours[0].area)
	}
	if b := contours[0].box; b.X1 != 2 || b.Y1 != 2 || b.X2 != 6 || b.Y2 != 6 {
		t.Errorf("first contour box = %+v, want (2,2)-(6,6)", b)
	}
	if contours[1].area != 3 {
		t.Errorf("second contour area = %d, want 3", contours[1].area)
	}
	if b := contours[1].box; b.X1 != 10 || b.Y1 != 10 || b.X2 != 13 || b.Y2 != 12 {
		t.Errorf("second contour box = %+v, want (10,10)-(13,12)", b)
	}
}
