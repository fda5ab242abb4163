package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func testPattern(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 11), B: 90, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecode_PNG(t *testing.T) {
	data := encodePNG(t, testPattern(12, 8))

	img, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 8 {
		t.Errorf("Dimensions = %v, want 12x8", img.Bounds())
	}
	if got := img.RGBAAt(3, 2); got != (color.RGBA{R: 21, G: 22, B: 90, A: 255}) {
		t.Errorf("Pixel(3,2) = %v, want {21 22 90 255}", got)
	}
}

func TestDecode_Empty(t *testing.T) {
	if _, err := Decode(nil); !errors.Is(err, ErrEmptyData) {
		t.Errorf("Decode(nil) error = %v, want ErrEmptyData", err)
	}
}

func TestDecode_Corrupt(t *testing.T) {
	if _, err := Decode([]byte("definitely not an image")); err == nil {
		t.Error("Decode(corrupt) should fail")
	}
}

func TestDecodeConfig(t *testing.T) {
	data := encodePNG(t, testPattern(31, 17))

	w, h, err := DecodeConfig(data)
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if w != 31 || h != 17 {
		t.Errorf("DecodeConfig() = (%d, %d), want (31, 17)", w, h)
	}
}

func TestToRGBA_OffsetOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 15, 10))
	src.SetNRGBA(5, 5, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	rgba := ToRGBA(src)

	if rgba.Bounds() != image.Rect(0, 0, 10, 5) {
		t.Errorf("Bounds = %v, want (0,0)-(10,5)", rgba.Bounds())
	}
	if got := rgba.RGBAAt(0, 0); got != (color.RGBA{R: 200, G: 100, B: 50, A: 255}) {
		t.Errorf("Pixel(0,0) = %v, want {200 100 50 255}", got)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	src := testPattern(16, 9)

	tests := []struct {
		name  string
		codec Codec
	}{
		{"jpeg", CodecJPEG},
		{"png", CodecPNG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeToBytes(src, tt.codec, 0.9)
			if err != nil {
				t.Fatalf("EncodeToBytes() error = %v", err)
			}

			_, format, err := image.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("DecodeConfig() error = %v", err)
			}
			if format != tt.codec.String() {
				t.Errorf("format = %q, want %q", format, tt.codec.String())
			}
		})
	}
}

func TestEncode_WebPUnsupported(t *testing.T) {
	_, err := EncodeToBytes(testPattern(2, 2), CodecWebP, 1)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("EncodeToBytes(webp) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	src := testPattern(20, 20)

	a, err := EncodeToBytes(src, CodecJPEG, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	b, err := EncodeToBytes(src, CodecJPEG, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("JPEG encoding at fixed quality should be deterministic")
	}
}

func TestJPEGQuality(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{-1, 1},
		{0, 1},
		{0.004, 1},
		{0.5, 50},
		{0.92, 92},
		{1, 100},
		{3, 100},
	}

	for _, tt := range tests {
		if got := JPEGQuality(tt.in); got != tt.want {
			t.Errorf("JPEGQuality(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCodec_String(t *testing.T) {
	tests := []struct {
		c    Codec
		want string
	}{
		{CodecJPEG, "jpeg"},
		{CodecPNG, "png"},
		{CodecWebP, "webp"},
		{Codec(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Codec(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}
