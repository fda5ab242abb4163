package gridcut

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/zip"
)

func tile(name string, data string) TileRecord {
	return TileRecord{Name: name, Data: []byte(data)}
}

func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	out := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		if f.Method != zip.Deflate {
			t.Errorf("%s method = %d, want Deflate", f.Name, f.Method)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		out[f.Name] = b
	}
	return out
}

func TestArchiver_Flat(t *testing.T) {
	tiles := []TileRecord{
		tile("cat_1_1.jpg", "one"),
		tile("cat_2_1.jpg", "two"),
		tile("dog_1_1.jpg", "three"),
	}

	pkg, err := NewArchiver().Archive(context.Background(), tiles, ArchiveOptions{})
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	wantPaths := []string{"cat_1_1.jpg", "cat_2_1.jpg", "dog_1_1.jpg"}
	if len(pkg.Paths) != len(wantPaths) {
		t.Fatalf("Paths = %v, want %v", pkg.Paths, wantPaths)
	}
	for i, p := range wantPaths {
		if pkg.Paths[i] != p {
			t.Errorf("Paths[%d] = %q, want %q", i, pkg.Paths[i], p)
		}
	}

	files := readArchive(t, pkg.Data)
	for _, tl := range tiles {
		if got := string(files[tl.Name]); got != string(tl.Data) {
			t.Errorf("%s content = %q, want %q", tl.Name, got, tl.Data)
		}
	}
	if len(pkg.Skipped) != 0 {
		t.Errorf("Skipped = %v, want none", pkg.Skipped)
	}
}

func TestArchiver_Grouped(t *testing.T) {
	tiles := []TileRecord{
		tile("cat_1_1.jpg", "a"),
		tile("my_cat_1_1.jpg", "b"),
	}

	pkg, err := NewArchiver().Archive(context.Background(), tiles, ArchiveOptions{GroupByImage: true})
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	files := readArchive(t, pkg.Data)
	for _, p := range []string{"cat/cat_1_1.jpg", "my/my_cat_1_1.jpg"} {
		if _, ok := files[p]; !ok {
			t.Errorf("archive missing %q (have %v)", p, pkg.Paths)
		}
	}
}

func TestArchiver_Progress(t *testing.T) {
	var tiles []TileRecord
	for i := 0; i < 9; i++ {
		tiles = append(tiles, tile(tileName("img", Position{Col: i % 3, Row: i / 3}, ".jpg"), "data"))
	}

	var got []float64
	_, err := NewArchiver().Archive(context.Background(), tiles, ArchiveOptions{
		Progress: func(f float64) { got = append(got, f) },
	})
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	if len(got) != len(tiles) {
		t.Fatalf("progress called %d times, want %d", len(got), len(tiles))
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Errorf("progress decreased: %v", got)
		}
	}
	if got[len(got)-1] != 1.0 {
		t.Errorf("final progress = %v, want 1.0", got[len(got)-1])
	}
}

func TestArchiver_SkipsBadTiles(t *testing.T) {
	tiles := []TileRecord{
		tile("a_1_1.jpg", "first"),
		tile("a_2_1.jpg", ""),
		tile("a_1_1.jpg", "second"),
		tile("a_1_2.jpg", "ok"),
	}

	var last float64
	pkg, err := NewArchiver().Archive(context.Background(), tiles, ArchiveOptions{
		Progress: func(f float64) { last = f },
	})
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	if len(pkg.Skipped) != 2 {
		t.Fatalf("Skipped = %v, want 2 errors", pkg.Skipped)
	}
	for _, e := range pkg.Skipped {
		if !errors.Is(e, ErrTilePackaging) {
			t.Errorf("skip error = %v, want ErrTilePackaging", e)
		}
	}

	files := readArchive(t, pkg.Data)
	if len(files) != 2 {
		t.Errorf("archive has %d entries, want 2", len(files))
	}
	if string(files["a_1_1.jpg"]) != "first" {
		t.Errorf("a_1_1.jpg = %q, want the first tile", files["a_1_1.jpg"])
	}
	if last != 0.5 {
		t.Errorf("final progress = %v, want 0.5", last)
	}
}

func TestArchiver_Empty(t *testing.T) {
	called := false
	pkg, err := NewArchiver().Archive(context.Background(), nil, ArchiveOptions{
		Progress: func(float64) { called = true },
	})
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if called {
		t.Error("progress called for empty input")
	}
	if files := readArchive(t, pkg.Data); len(files) != 0 {
		t.Errorf("archive has %d entries, want 0", len(files))
	}
}

func TestArchiver_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewArchiver().Archive(ctx, []TileRecord{tile("a_1_1.jpg", "x")}, ArchiveOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Archive() error = %v, want context.Canceled", err)
	}
}
