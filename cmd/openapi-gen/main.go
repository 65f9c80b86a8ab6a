// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sigil-dev/glossary/internal/glossary"
	"github.com/sigil-dev/glossary/internal/server"
	"github.com/sigil-dev/glossary/internal/store/sqlite"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

func main() {
	spec, err := generateSpec()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	outPath := "api/openapi/spec.json"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output dir: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, spec, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing spec: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OpenAPI spec written to %s\n", outPath)
}

// generateSpec creates a server with all routes registered and extracts the
// OpenAPI spec that huma generates from the Go type annotations. The backing
// store is a throwaway database; no handler runs.
func generateSpec() ([]byte, error) {
	dir, err := os.MkdirTemp("", "glossary-openapi-*")
	if err != nil {
		return nil, glossaryerr.Errorf(glossaryerr.CodeCLISetupFailure, "creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	entries, err := sqlite.NewEntryStore(filepath.Join(dir, "glossary.db"))
	if err != nil {
		return nil, err
	}
	defer entries.Close()

	svc, err := server.NewServices(entries, glossary.NewHandler(glossary.HandlerConfig{Store: entries}))
	if err != nil {
		return nil, err
	}

	srv, err := server.New(server.Config{ListenAddr: "127.0.0.1:0"}, svc)
	if err != nil {
		return nil, glossaryerr.Errorf(glossaryerr.CodeCLISetupFailure, "creating server: %w", err)
	}
	defer srv.Close()

	return json.MarshalIndent(srv.API().OpenAPI(), "", "  ")
}
