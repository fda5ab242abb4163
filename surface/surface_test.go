// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"jpeg", FormatJPEG, false},
		{"JPG", FormatJPEG, false},
		{"image/jpeg", FormatJPEG, false},
		{".png", FormatPNG, false},
		{"image/png", FormatPNG, false},
		{" webp ", FormatWebP, false},
		{"image/gif", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormat_Metadata(t *testing.T) {
	tests := []struct {
		f         Format
		name      string
		mediaType string
		ext       string
	}{
		{FormatJPEG, "jpeg", "image/jpeg", ".jpg"},
		{FormatPNG, "png", "image/png", ".png"},
		{FormatWebP, "webp", "image/webp", ".webp"},
	}

	for _, tt := range tests {
		if got := tt.f.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.f.MediaType(); got != tt.mediaType {
			t.Errorf("%v.MediaType() = %q, want %q", tt.f, got, tt.mediaType)
		}
		if got := tt.f.Extension(); got != tt.ext {
			t.Errorf("%v.Extension() = %q, want %q", tt.f, got, tt.ext)
		}
	}
}

func TestFormat_TextRoundTrip(t *testing.T) {
	var f Format
	if err := f.UnmarshalText([]byte("png")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if f != FormatPNG {
		t.Errorf("UnmarshalText(png) = %v, want png", f)
	}

	text, err := FormatJPEG.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "jpeg" {
		t.Errorf("MarshalText() = %q, want jpeg", text)
	}

	if err := f.UnmarshalText([]byte("tiff")); err == nil {
		t.Error("UnmarshalText(tiff) should fail")
	}
}

func TestNewBitmap(t *testing.T) {
	bm, err := NewRaster().Decode(checkerPNG(t, 3, 2))
	if err != nil {
		t.Fatal(err)
	}
	r := FullRegion(bm)
	if r != (Region{Width: 3, Height: 2}) {
		t.Errorf("FullRegion() = %+v, want {0 0 3 2}", r)
	}
}
