package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the configured grid presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, g := range a.cfg.GridPresets {
				marker := " "
				if g == a.cfg.DefaultGrid {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, g)
			}
			return nil
		},
	}
}
