// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sigil-dev/glossary/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Storage.Path = filepath.Join(t.TempDir(), "data", "glossary.db")
	return cfg
}

func TestWireApp_CreatesDataDirectory(t *testing.T) {
	cfg := testConfig(t)

	app, err := WireApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.DirExists(t, filepath.Dir(cfg.Storage.Path))
	assert.NotNil(t, app.Handler)

	_, err = app.archiver()
	assert.NoError(t, err)
}

func TestWireApp_AppliesFixtures(t *testing.T) {
	cfg := testConfig(t)
	cfg.Glossary.FixturesPath = filepath.Join(t.TempDir(), "defaults.json")
	require.NoError(t, os.WriteFile(cfg.Glossary.FixturesPath, []byte(`{"fish": "a swimmy thing"}`), 0o644))

	app, err := WireApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	rec, err := app.Store.GetEntry(context.Background(), "fish")
	require.NoError(t, err)
	assert.Equal(t, "a swimmy thing", rec.Definition)
}

func TestWireApp_MissingFixturesIsSkipped(t *testing.T) {
	cfg := testConfig(t)
	cfg.Glossary.FixturesPath = filepath.Join(t.TempDir(), "absent.yaml")

	app, err := WireApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	terms, err := app.Store.ListTerms(context.Background())
	require.NoError(t, err)
	assert.Empty(t, terms)
}

func TestWireApp_InvalidFixtures(t *testing.T) {
	cfg := testConfig(t)
	cfg.Glossary.FixturesPath = filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(cfg.Glossary.FixturesPath, []byte("- not\n- a map\n"), 0o644))

	_, err := WireApp(context.Background(), cfg)
	assert.Error(t, err)
}

func TestApp_WatchFixturesDisabled(t *testing.T) {
	cfg := testConfig(t)
	app, err := WireApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.NoError(t, app.WatchFixtures(context.Background()))
}
