// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sigil-dev/glossary/internal/config"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// rootOptions carries state resolved by the root command to its subcommands.
type rootOptions struct {
	v   *viper.Viper
	cfg *config.Config
}

// NewRootCmd creates the root glossary command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	root := &cobra.Command{
		Use:   "glossary",
		Short: "glossary - a versioned team glossary for chat",
		Long: "glossary keeps a versioned history of team jargon. It runs as a chat-bot " +
			"command plugin, as a small HTTP API, or straight from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init(cmd)
		},
	}

	// Global flags. These map to viper keys in init.
	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().String("db", "", "path to the glossary database")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newServeCmd(opts),
		newHTTPCmd(opts),
		newRunCmd(opts),
		newChatCmd(opts),
		newImportCmd(opts),
		newDumpCmd(opts),
		newLoadCmd(opts),
	)

	return root
}

// init sets up viper with defaults, env bindings, flag bindings and an
// optional config file (flag > env > file > defaults), then decodes the
// config and installs the default logger.
func (o *rootOptions) init(cmd *cobra.Command) error {
	v := o.v

	config.SetDefaults(v)
	config.SetupEnv(v)

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return glossaryerr.Errorf(glossaryerr.CodeConfigLoadReadFailure, "reading config file: %w", err)
		}
	} else {
		// SetConfigType is left unset so viper does not try the bare name,
		// which would collide with the ./glossary binary.
		v.SetConfigName("glossary")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/glossary")
		v.AddConfigPath("/etc/glossary")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return glossaryerr.Errorf(glossaryerr.CodeConfigLoadReadFailure, "reading config: %w", err)
			}
		}
	}

	if err := v.BindPFlag("storage.path", cmd.Root().PersistentFlags().Lookup("db")); err != nil {
		return glossaryerr.Errorf(glossaryerr.CodeCLISetupFailure, "binding db flag: %w", err)
	}
	if err := v.BindPFlag("verbose", cmd.Root().PersistentFlags().Lookup("verbose")); err != nil {
		return glossaryerr.Errorf(glossaryerr.CodeCLISetupFailure, "binding verbose flag: %w", err)
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	o.cfg = cfg

	slog.SetDefault(slog.New(newLogHandler(cmd.ErrOrStderr(), cfg.Logging, v.GetBool("verbose"))))
	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("loaded config", "path", used)
	}
	return nil
}

// newLogHandler builds the slog handler for cfg. Logs always go to w, never
// stdout, which carries the plugin handshake in serve mode.
func newLogHandler(w io.Writer, cfg config.LoggingConfig, verbose bool) slog.Handler {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
