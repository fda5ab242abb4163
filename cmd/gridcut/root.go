package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gogpu/gridcut"
)

// configEnv names the environment variable holding the default config path.
const configEnv = "GRIDCUT_CONFIG"

// app is the state shared by subcommands after the root pre-run.
type app struct {
	configPath string
	verbose    bool
	cfg        gridcut.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "gridcut",
		Short: "Cut images into grids of tiles",
		Long: `gridcut normalizes images, cuts each one into an X x Y grid of equal tiles
and bundles the tiles into a zip archive.

Configuration is read from the YAML file named by --config or $GRIDCUT_CONFIG.
A .env file in the working directory is loaded first.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default $"+configEnv+")")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log per-file and per-tile progress")

	cmd.AddCommand(newSplitCmd(a))
	cmd.AddCommand(newPresetsCmd(a))

	return cmd
}

// setup installs the logger and loads the configuration.
func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	gridcut.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	path := a.configPath
	if !cmd.Flags().Changed("config") {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		a.cfg = gridcut.DefaultConfig()
		return nil
	}

	cfg, err := gridcut.LoadConfig(path)
	if err != nil {
		return err
	}
	gridcut.Logger().Debug("loaded config", "path", path)
	a.cfg = cfg
	return nil
}
