// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/glossary/internal/server"
)

func newHTTPCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the glossary REST API",
		Long:  "Open the store and serve the glossary over HTTP until interrupted.",
		Args:  cobra.NoArgs,
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

			svc, err := server.NewServices(app.Store, app.Handler)
			if err != nil {
				return err
			}

			srv, err := server.New(server.Config{
				ListenAddr:  opts.cfg.Server.Listen,
				CORSOrigins: opts.cfg.Server.CORSOrigins,
				RateLimit: server.RateLimitConfig{
					RequestsPerSecond: opts.cfg.Server.RateLimit.RequestsPerSecond,
					Burst:             opts.cfg.Server.RateLimit.Burst,
				},
			}, svc)
			if err != nil {
				return err
			}
			defer func() { _ = srv.Close() }()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().String("listen", "", "override listen address (host:port)")
	_ = opts.v.BindPFlag("server.listen", cmd.Flags().Lookup("listen"))

	return cmd
}
