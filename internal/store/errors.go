// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// NotFound builds the error returned when a term has no definitions.
func NotFound(term string) error {
	return glossaryerr.New(glossaryerr.CodeStoreEntryNotFound, "term is undefined",
		glossaryerr.FieldTerm(term))
}

// VersionOutOfRange builds the error returned when a requested history
// version falls outside [1, total].
func VersionOutOfRange(term string, version, total int) error {
	return glossaryerr.New(glossaryerr.CodeStoreEntryVersionOutOfRange, "version out of range",
		glossaryerr.FieldTerm(term),
		glossaryerr.Field("version", version),
		glossaryerr.Field("total", total),
	)
}

// TotalOf extracts the history length carried by a VersionOutOfRange error.
func TotalOf(err error) (int, bool) {
	if !glossaryerr.IsOutOfRange(err) {
		return 0, false
	}
	total, ok := glossaryerr.FieldsOf(err)["total"].(int)
	return total, ok
}

// RedirectNotFound builds the error returned when term is not redirected.
func RedirectNotFound(term string) error {
	return glossaryerr.New(glossaryerr.CodeStoreRedirectNotFound, "term is not redirected",
		glossaryerr.FieldTerm(term))
}

// EntryRedirected builds the error returned when a redirected term is
// defined.
func EntryRedirected(term, target string) error {
	return glossaryerr.New(glossaryerr.CodeStoreEntryRedirected, "redirected entries cannot be defined",
		glossaryerr.FieldTerm(term),
		glossaryerr.Field("target", target),
	)
}

// RedirectTargetRedirected builds the error returned when a redirect would
// point at a term that is itself redirected to target.
func RedirectTargetRedirected(term, target string) error {
	return glossaryerr.New(glossaryerr.CodeStoreRedirectTargetRedirected, "redirect target is itself redirected",
		glossaryerr.FieldTerm(term),
		glossaryerr.Field("target", target),
	)
}

// RedirectSourceTargeted builds the error returned when a redirect would
// leave a term that source already redirects to.
func RedirectSourceTargeted(term, source string) error {
	return glossaryerr.New(glossaryerr.CodeStoreRedirectSourceTargeted, "redirect source is already a redirect target",
		glossaryerr.FieldTerm(term),
		glossaryerr.Field("source", source),
	)
}

// TargetOf extracts the redirect target carried by EntryRedirected and
// RedirectTargetRedirected errors.
func TargetOf(err error) string {
	target, _ := glossaryerr.FieldsOf(err)["target"].(string)
	return target
}

// SourceOf extracts the redirect source carried by RedirectSourceTargeted.
func SourceOf(err error) string {
	source, _ := glossaryerr.FieldsOf(err)["source"].(string)
	return source
}
