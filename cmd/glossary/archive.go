// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sigil-dev/glossary/internal/glossary"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// archiver is implemented by stores that can export and import their history.
type archiver interface {
	Dump(ctx context.Context, w io.Writer) error
	Load(ctx context.Context, r io.Reader) (int, error)
}

func (a *App) archiver() (archiver, error) {
	ar, ok := a.Store.(archiver)
	if !ok {
		return nil, glossaryerr.Errorf(glossaryerr.CodeCLIInputInvalid,
			"storage backend %q does not support archives", a.Config.Storage.Backend)
	}
	return ar, nil
}

func newDumpCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump [file]",
		Short: "Export every definition as JSON",
		Long:  "Write the full definition history as JSON to file, or stdout when omitted.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := WireApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			ar, err := app.archiver()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return ar.Dump(cmd.Context(), cmd.OutOrStdout())
			}

			f, err := os.Create(args[0])
			if err != nil {
				return glossaryerr.Wrap(err, glossaryerr.CodeCLIInputInvalid, "creating dump file",
					glossaryerr.FieldPath(args[0]))
			}
			if err := ar.Dump(cmd.Context(), f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
}

func newLoadCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Import definitions from a JSON dump",
		Long:  "Add every definition in a dump that the store does not already have.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := WireApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			ar, err := app.archiver()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return glossaryerr.Wrap(err, glossaryerr.CodeCLIInputInvalid, "opening dump file",
					glossaryerr.FieldPath(args[0]))
			}
			defer f.Close()

			added, err := ar.Load(cmd.Context(), f)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d new definitions from %s\n", added, args[0])
			return err
		},
	}
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <fixtures-file>",
		Short: "Merge a YAML or JSON map of default definitions",
		Long:  "Merge a term -> definition map into the store. Definitions already in a term's history are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := WireApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			added, err := glossary.ApplyFixtureFile(cmd.Context(), app.Store, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Merged %d new definitions from %s\n", added, args[0])
			return err
		},
	}
}
