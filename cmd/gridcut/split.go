package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gogpu/gridcut"
	"github.com/gogpu/gridcut/session"
	"github.com/gogpu/gridcut/surface"
)

// processingFlags holds overrides for the configured processing options.
type processingFlags struct {
	quality     float64
	maxWidth    int
	maxHeight   int
	noSmoothing bool
	format      string
}

func (p *processingFlags) register(fs *pflag.FlagSet) {
	fs.Float64VarP(&p.quality, "quality", "q", gridcut.DefaultQuality, "encode quality in [0, 1]")
	fs.IntVar(&p.maxWidth, "max-width", gridcut.DefaultMaxWidth, "maximum normalized width")
	fs.IntVar(&p.maxHeight, "max-height", gridcut.DefaultMaxHeight, "maximum normalized height")
	fs.BoolVar(&p.noSmoothing, "no-smoothing", false, "use nearest-neighbor sampling")
	fs.StringVarP(&p.format, "format", "f", "jpeg", "tile format (jpeg or png)")
}

// options returns overrides for the flags set on the command line only, so
// unset flags keep the configured values.
func (p *processingFlags) options(fs *pflag.FlagSet) ([]gridcut.Option, error) {
	var opts []gridcut.Option
	if fs.Changed("quality") {
		opts = append(opts, gridcut.WithQuality(p.quality))
	}
	if fs.Changed("max-width") || fs.Changed("max-height") {
		w, _ := fs.GetInt("max-width")
		h, _ := fs.GetInt("max-height")
		opts = append(opts, gridcut.WithMaxSize(w, h))
	}
	if fs.Changed("no-smoothing") {
		opts = append(opts, gridcut.WithSmoothing(!p.noSmoothing))
	}
	if fs.Changed("format") {
		f, err := surface.ParseFormat(p.format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gridcut.WithFormat(f))
	}
	return opts, nil
}

func newSplitCmd(a *app) *cobra.Command {
	var (
		gridSpec string
		output   string
		flat     bool
		proc     processingFlags
	)

	cmd := &cobra.Command{
		Use:   "split [files...]",
		Short: "Split images into tiles and write a zip archive",
		Long: `Each image is validated, scaled down to fit the maximum size and cut into
an X x Y grid. Tiles from every image go into one zip archive, grouped in a
folder per image unless --flat is given.`,
		Example: `  # Split into the default 3x3 grid
  gridcut split photo.jpg

  # 4x4 PNG tiles from several images without folders
  gridcut split a.png b.webp --grid 4x4 --format png --flat -o tiles.zip`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg

			if cmd.Flags().Changed("grid") {
				g, err := gridcut.ParseGrid(gridSpec)
				if err != nil {
					return err
				}
				cfg.DefaultGrid = g
			}

			overrides, err := proc.options(cmd.Flags())
			if err != nil {
				return err
			}
			cfg.Processing = cfg.Processing.With(overrides...)

			files, err := readFiles(args)
			if err != nil {
				return err
			}

			pkg, report, err := runSplit(cmd, cfg, files, gridcut.ArchiveOptions{GroupByImage: !flat})
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, pkg.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d tiles from %d images at %s (%s)\n",
				output, len(pkg.Paths), report.images, cfg.DefaultGrid, humanize.IBytes(uint64(len(pkg.Data))))
			if report.failed > 0 {
				return fmt.Errorf("%d failures; last: %w", report.failed, report.lastErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&gridSpec, "grid", "g", gridcut.DefaultGrid.String(), "grid as COLUMNSxROWS")
	cmd.Flags().StringVarP(&output, "output", "o", "tiles.zip", "output archive")
	cmd.Flags().BoolVar(&flat, "flat", false, "store tiles without per-image folders")
	proc.register(cmd.Flags())

	return cmd
}

// splitReport summarizes a split run.
type splitReport struct {
	images  int
	failed  int
	lastErr error
}

// runSplit drives one session over files: upload everything, then select
// each image in turn so it is split at cfg.DefaultGrid, and archive the
// collected tiles.
func runSplit(cmd *cobra.Command, cfg gridcut.Config, files []gridcut.File, opts gridcut.ArchiveOptions) (*gridcut.Package, splitReport, error) {
	ctx := cmd.Context()
	log := gridcut.Logger()

	// Every recorded failure replaces the error slot, so count changes.
	var report splitReport
	observe := func(s session.State) {
		log.Debug("session", "status", s.Status(), "images", len(s.Images), "tiles", len(s.Tiles))
		if s.Err != nil && s.Err != report.lastErr {
			report.failed++
			report.lastErr = s.Err
		}
	}

	cfg.AutoSplit = false
	m, err := session.New(cfg, nil, session.WithObserver(observe))
	if err != nil {
		return nil, report, err
	}

	st, err := m.UploadFiles(ctx, files)
	if err != nil {
		return nil, report, err
	}
	report.images = len(st.Images)

	var tiles []gridcut.TileRecord
	for i := range st.Images {
		sel, err := m.SelectImage(ctx, i)
		if err != nil {
			return nil, report, err
		}
		tiles = append(tiles, sel.Tiles...)
	}

	pkg, err := gridcut.NewArchiver().Archive(ctx, tiles, opts)
	if err != nil {
		return nil, report, err
	}
	for _, skipped := range pkg.Skipped {
		report.failed++
		report.lastErr = skipped
	}
	return pkg, report, nil
}
