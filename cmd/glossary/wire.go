// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sigil-dev/glossary/internal/config"
	"github.com/sigil-dev/glossary/internal/glossary"
	"github.com/sigil-dev/glossary/internal/store"
	_ "github.com/sigil-dev/glossary/internal/store/sqlite" // register sqlite backend
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// App holds the wired store and command handler.
type App struct {
	Config  *config.Config
	Store   store.EntryStore
	Handler *glossary.Handler
}

// WireApp opens the store, builds the command handler and merges the
// configured fixture file.
func WireApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if dir := filepath.Dir(cfg.Storage.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, glossaryerr.Errorf(glossaryerr.CodeCLISetupFailure, "creating data directory: %w", err)
		}
	}

	entries, err := store.NewEntryStore(&store.StorageConfig{
		Backend: cfg.Storage.Backend,
		Path:    cfg.Storage.Path,
	})
	if err != nil {
		return nil, glossaryerr.Wrap(err, glossaryerr.CodeCLISetupFailure, "opening glossary store",
			glossaryerr.FieldPath(cfg.Storage.Path))
	}

	app := &App{
		Config: cfg,
		Store:  entries,
		Handler: glossary.NewHandler(glossary.HandlerConfig{
			Store:           entries,
			SlackURL:        cfg.Glossary.SlackURL,
			SuggestionLimit: cfg.Glossary.SuggestionLimit,
		}),
	}

	if path := cfg.Glossary.FixturesPath; path != "" {
		if _, err := glossary.ApplyFixtureFile(ctx, entries, path); err != nil {
			_ = entries.Close()
			return nil, glossaryerr.Wrap(err, glossaryerr.CodeCLISetupFailure, "applying fixtures",
				glossaryerr.FieldPath(path))
		}
	}

	return app, nil
}

// WatchFixtures re-merges the fixture file whenever it changes, if enabled.
func (a *App) WatchFixtures(ctx context.Context) error {
	path := a.Config.Glossary.FixturesPath
	if !a.Config.Glossary.WatchFixtures || path == "" {
		return nil
	}

	return glossary.WatchFixtures(ctx, path, func(ctx context.Context) {
		if _, err := glossary.ApplyFixtureFile(ctx, a.Store, path); err != nil {
			slog.Warn("reloading glossary fixtures", "path", path, "error", err)
		}
	})
}

func (a *App) Close() error {
	return a.Store.Close()
}
