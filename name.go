package gridcut

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns the canonical (NFC) form of a file name. Names are
// compared in this form, so "é" typed as one code point or as "e" plus a
// combining accent collide.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// baseName returns name up to its first dot.
func baseName(name string) string {
	base, _, _ := strings.Cut(name, ".")
	return base
}

// tileName builds "<base>_<col+1>_<row+1><ext>".
func tileName(base string, pos Position, ext string) string {
	return base + "_" + strconv.Itoa(pos.Col+1) + "_" + strconv.Itoa(pos.Row+1) + ext
}

// tileID builds "<imageID>_<col>_<row>".
func tileID(imageID string, pos Position) string {
	return imageID + "_" + strconv.Itoa(pos.Col) + "_" + strconv.Itoa(pos.Row)
}

// folderToken returns the tile name up to its first underscore.
func folderToken(name string) string {
	token, _, _ := strings.Cut(name, "_")
	return token
}
