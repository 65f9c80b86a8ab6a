// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/glossary/internal/plugin"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the glossary commands as a chat-bot plugin",
		Long: "Serve the glossary commands over hashicorp/go-plugin. " +
			"The host bot launches this; it is not meant to be run by hand.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := WireApp(ctx, opts.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			if err := app.WatchFixtures(ctx); err != nil {
				return err
			}

			plugin.Serve(plugin.NewHandlerPlugin(app.Handler), plugin.NewLogger(plugin.PluginName, opts.cfg.Logging.Level))
			return nil
		},
	}
}
