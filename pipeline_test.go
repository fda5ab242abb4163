package gridcut_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"testing"

	"github.com/gogpu/gridcut"
)

func TestPipeline(t *testing.T) {
	ctx := context.Background()
	cfg := gridcut.DefaultConfig()
	cfg.Processing = cfg.Processing.With(gridcut.WithMaxSize(384, 216))

	surf, err := cfg.NewSurface()
	if err != nil {
		t.Fatalf("NewSurface() error = %v", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 400, 300))); err != nil {
		t.Fatal(err)
	}
	file := gridcut.File{Name: "scan.png", Type: "image/png", Size: int64(buf.Len()), Data: buf.Bytes()}

	if err := gridcut.NewValidator(cfg).Validate(file); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	rec, err := gridcut.NewNormalizer(surf, cfg.Processing).Normalize(ctx, file)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if rec.Width != 288 || rec.Height != 216 {
		t.Fatalf("normalized to %dx%d, want 288x216", rec.Width, rec.Height)
	}

	tiles, err := gridcut.NewSplitter(surf, cfg.Processing).Split(ctx, *rec, cfg.DefaultGrid)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(tiles) != 9 || tiles[0].Width != 96 || tiles[0].Height != 72 {
		t.Fatalf("got %d tiles of %dx%d, want 9 of 96x72", len(tiles), tiles[0].Width, tiles[0].Height)
	}

	pkg, err := gridcut.NewArchiver().Archive(ctx, tiles, gridcut.ArchiveOptions{GroupByImage: true})
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if len(pkg.Paths) != 9 || pkg.Paths[0] != "scan/scan_1_1.jpg" {
		t.Errorf("Paths = %v", pkg.Paths)
	}
}

func ExampleFitWithin() {
	w, h := gridcut.FitWithin(4000, 3000, gridcut.DefaultMaxWidth, gridcut.DefaultMaxHeight)
	fmt.Printf("%dx%d\n", w, h)
	// Output: 2880x2160
}

func ExampleParseGrid() {
	g, err := gridcut.ParseGrid("4x2")
	if err != nil {
		panic(err)
	}
	fmt.Println(g.X, g.Y, g.Cells())
	// Output: 4 2 8
}
