package gridcut

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/gogpu/gridcut/surface"
)

// testImage returns a w x h image with a position-dependent pattern.
func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 11), B: 90, A: 255})
		}
	}
	return img
}

func pngBytes(t testing.TB, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func jpegBytes(t testing.TB, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(w, h), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

func pngFile(t testing.TB, name string, w, h int) File {
	t.Helper()
	data := pngBytes(t, w, h)
	return File{Name: name, Type: "image/png", Size: int64(len(data)), Data: data}
}

// pngRecord builds an ImageRecord holding a PNG of the given size.
func pngRecord(t testing.TB, name string, w, h int) ImageRecord {
	t.Helper()
	data := pngBytes(t, w, h)
	return ImageRecord{
		ID:     "01TESTIMAGE",
		Name:   name,
		Format: surface.FormatPNG,
		Data:   data,
		Width:  w,
		Height: h,
		Digest: digest(data),
	}
}

func decodeSize(t testing.TB, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("image.DecodeConfig: %v", err)
	}
	return cfg.Width, cfg.Height
}
