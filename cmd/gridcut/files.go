package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gridcut"
)

// readFiles loads paths as uploads. The media type comes from the file
// extension, falling back to content sniffing.
func readFiles(paths []string) ([]gridcut.File, error) {
	files := make([]gridcut.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, gridcut.File{
			Name: filepath.Base(p),
			Type: mediaType(p, data),
			Size: int64(len(data)),
			Data: data,
		})
	}
	return files, nil
}

// mediaType returns the bare media type of a file, without parameters.
func mediaType(path string, data []byte) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if t == "" {
		t = http.DetectContentType(data)
	}
	t, _, _ = strings.Cut(t, ";")
	return strings.TrimSpace(t)
}
