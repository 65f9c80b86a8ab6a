// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/glossary/internal/plugin"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <command> [args...]",
		Short: "Run one glossary command and print the reply",
		Long: "Run one glossary command, e.g. `glossary run whatis fish`. With --plugin the " +
			"command goes through a launched plugin binary instead of the local store.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, _ := cmd.Flags().GetString("sender")
			channel, _ := cmd.Flags().GetString("channel")
			binary, _ := cmd.Flags().GetString("plugin")

			cp, closeFn, err := opts.commandPlugin(cmd, binary)
			if err != nil {
				return err
			}
			defer closeFn()

			reply, err := cp.Handle(plugin.Invocation{
				Command: args[0],
				Sender:  sender,
				Channel: channel,
				Args:    strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply)
			return err
		},
	}

	cmd.Flags().String("sender", os.Getenv("USER"), "who is running the command")
	cmd.Flags().String("channel", "", "channel the command is run from")
	cmd.Flags().String("plugin", "", "path to a glossary plugin binary to run the command through")

	return cmd
}

// commandPlugin returns the local handler, or a launched plugin when binary
// is set. The plugin inherits this process's storage path.
func (o *rootOptions) commandPlugin(cmd *cobra.Command, binary string) (plugin.CommandPlugin, func(), error) {
	if binary == "" {
		app, err := WireApp(cmd.Context(), o.cfg)
		if err != nil {
			return nil, nil, err
		}
		return plugin.NewHandlerPlugin(app.Handler), func() { _ = app.Close() }, nil
	}

	clientCfg := plugin.ClientConfig(binary, nil, plugin.NewLogger(plugin.PluginName+"-host", o.cfg.Logging.Level))
	clientCfg.Cmd.Env = append(os.Environ(), "GLOSSARY_STORAGE_PATH="+o.cfg.Storage.Path)

	client, err := plugin.Launch(clientCfg)
	if err != nil {
		return nil, nil, glossaryerr.With(err, glossaryerr.FieldPath(binary))
	}
	return client, func() { _ = client.Close() }, nil
}
