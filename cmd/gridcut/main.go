// Command gridcut cuts images into grids of tiles and writes them to a zip
// archive.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/gogpu/gridcut"
)

func main() {
	root := newRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(gridcut.Version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
