// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package config

import (
	_ "embed"
	"log/slog"
	"os"
	"path/filepath"

	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

//go:embed glossary.yaml.default
var DefaultConfigYAML []byte

// DefaultConfigPath returns ~/.config/glossary/glossary.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", glossaryerr.Errorf(glossaryerr.CodeConfigLoadReadFailure, "resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "glossary", "glossary.yaml"), nil
}

// WriteDefault writes the commented default config to path. An existing
// file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return glossaryerr.New(glossaryerr.CodeCLIInputInvalid, "config file already exists",
			glossaryerr.FieldPath(path))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return glossaryerr.Wrap(err, glossaryerr.CodeCLISetupFailure, "creating config directory",
			glossaryerr.FieldPath(path))
	}

	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		return glossaryerr.Wrap(err, glossaryerr.CodeCLISetupFailure, "writing config",
			glossaryerr.FieldPath(path))
	}

	slog.Info("created default config", "path", path)
	return nil
}
