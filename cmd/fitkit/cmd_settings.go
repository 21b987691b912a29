package main

import (
	"io"

	"alcyxob/fitness-testkit/internal/prefs"
	"alcyxob/fitness-testkit/internal/theme"
	"alcyxob/fitness-testkit/internal/ui"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Pick the theme mode in a terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := prefs.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		if c, ok := store.(io.Closer); ok {
			defer c.Close()
		}

		controller, err := theme.NewController(ctx, store, logger)
		if err != nil {
			return err
		}
		return ui.Run(ctx, controller)
	},
}
