// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package glossary

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/sigil-dev/glossary/internal/metrics"
	"github.com/sigil-dev/glossary/internal/store"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// FixtureAuthor is recorded as the author of fixture definitions.
const FixtureAuthor = "the defaults"

// LoadFixtureFile reads a term → definition mapping from a YAML or JSON file.
// A missing file yields an empty mapping.
func LoadFixtureFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("no glossary fixtures file found", "path", path)
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, glossaryerr.Wrap(err, glossaryerr.CodeGlossaryFixturesReadFailure, "reading fixtures",
			glossaryerr.FieldPath(path))
	}

	// JSON is a subset of YAML, so one decoder covers both formats.
	fixtures := map[string]string{}
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, glossaryerr.Wrap(err, glossaryerr.CodeGlossaryFixturesInvalidFormat, "parsing fixtures",
			glossaryerr.FieldPath(path))
	}
	return fixtures, nil
}

// MergeFixtures adds each definition that does not already appear anywhere
// in its term's history and returns the number written.
func MergeFixtures(ctx context.Context, s store.EntryStore, fixtures map[string]string) (int, error) {
	terms := make([]string, 0, len(fixtures))
	for term := range fixtures {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	added := 0
	for _, term := range terms {
		definition := fixtures[term]
		history, err := s.History(ctx, term)
		if err != nil {
			return added, err
		}
		if hasDefinition(history, definition) {
			continue
		}

		entry := store.NewEntry{Term: term, Definition: definition, Author: FixtureAuthor}
		if err := entry.Validate(); err != nil {
			slog.Warn("skipping invalid glossary fixture", "term", term, "error", err)
			continue
		}
		_, err = s.AddEntry(ctx, entry)
		if glossaryerr.HasCode(err, glossaryerr.CodeStoreEntryRedirected) {
			slog.Warn("skipping redirected glossary fixture", "term", term, "target", store.TargetOf(err))
			continue
		}
		if err != nil {
			return added, err
		}
		added++
	}

	metrics.EntriesWrittenTotal.WithLabelValues(metrics.SourceFixtures).Add(float64(added))
	return added, nil
}

func hasDefinition(history []*store.Record, definition string) bool {
	for _, rec := range history {
		if rec.Definition == definition {
			return true
		}
	}
	return false
}

// ApplyFixtureFile loads path and merges it into s.
func ApplyFixtureFile(ctx context.Context, s store.EntryStore, path string) (int, error) {
	fixtures, err := LoadFixtureFile(path)
	if err != nil {
		return 0, err
	}
	added, err := MergeFixtures(ctx, s, fixtures)
	if err != nil {
		return added, err
	}
	slog.Info("glossary fixtures merged", "path", path, "fixtures", len(fixtures), "added", added)
	return added, nil
}

// WatchFixtures calls onChange each time the file at path is written or
// replaced, until ctx is cancelled. The parent directory is watched so that
// editors that rename over the file are seen.
func WatchFixtures(ctx context.Context, path string, onChange func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return glossaryerr.Wrap(err, glossaryerr.CodeGlossaryFixturesWatchFailure, "creating watcher",
			glossaryerr.FieldPath(path))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return glossaryerr.Wrap(err, glossaryerr.CodeGlossaryFixturesWatchFailure, "resolving path",
			glossaryerr.FieldPath(path))
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return glossaryerr.Wrap(err, glossaryerr.CodeGlossaryFixturesWatchFailure, "watching directory",
			glossaryerr.FieldPath(path))
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				slog.Debug("glossary fixtures changed", "path", abs, "op", ev.Op.String())
				onChange(ctx)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("glossary fixtures watcher error", "path", abs, "error", err)
			}
		}
	}()
	return nil
}
