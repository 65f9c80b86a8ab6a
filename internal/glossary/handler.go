// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package glossary implements the chat commands that define, look up and
// search glossary entries. Every handler returns the reply text for the
// user; an error is returned only when the store fails.
package glossary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sigil-dev/glossary/internal/metrics"
	"github.com/sigil-dev/glossary/internal/store"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// anonymousAuthor is recorded when the host does not identify the sender.
const anonymousAuthor = "anonymous"

// Request is one command invocation from the host.
type Request struct {
	Sender  string
	Channel string
	Args    string
}

// HandlerConfig holds dependencies for the Handler.
type HandlerConfig struct {
	Store           store.EntryStore
	SlackURL        string
	SuggestionLimit int
	Now             func() time.Time
}

// Handler serves the glossary commands against an entry store.
type Handler struct {
	store           store.EntryStore
	slackURL        string
	suggestionLimit int
	now             func() time.Time
}

// NewHandler creates a Handler with the given dependencies.
func NewHandler(cfg HandlerConfig) *Handler {
	limit := cfg.SuggestionLimit
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		store:           cfg.Store,
		slackURL:        strings.TrimRight(cfg.SlackURL, "/"),
		suggestionLimit: limit,
		now:             now,
	}
}

// Define records a new definition from "<term>: <definition>".
func (h *Handler) Define(ctx context.Context, req Request) (string, error) {
	if isHelp(req.Args) {
		return Docs, nil
	}

	d := parseDefinition(req.Args)
	if d.reply != "" {
		return d.reply, nil
	}

	current, err := h.store.GetEntry(ctx, d.term)
	switch {
	case err == nil:
		if current.Definition == d.definition {
			return msgUnchanged, nil
		}
	case glossaryerr.IsNotFound(err):
	default:
		return "", err
	}

	author := req.Sender
	if author == "" {
		author = anonymousAuthor
	}
	rec, err := h.store.AddEntry(ctx, store.NewEntry{
		Term:       d.term,
		Definition: d.definition,
		Author:     author,
		Channel:    req.Channel,
	})
	if glossaryerr.HasCode(err, glossaryerr.CodeStoreEntryRedirected) {
		target, lookupErr := h.displayTerm(ctx, store.TargetOf(err))
		if lookupErr != nil {
			return "", lookupErr
		}
		return fmt.Sprintf(msgRedirectedDefine, d.term, target), nil
	}
	if err != nil {
		return "", err
	}
	metrics.EntriesWrittenTotal.WithLabelValues(metrics.SourceCommand).Inc()

	return fmt.Sprintf(msgDefined, rec.Term, rec.Definition, Ordinal(rec.Total)), nil
}

// Lookup replies with a term's current or historical definition, or a
// random term's when no argument is given.
func (h *Handler) Lookup(ctx context.Context, req Request) (string, error) {
	if isHelp(req.Args) {
		return Docs, nil
	}

	l, err := parseLookup(ctx, req.Args, h.defined)
	if err != nil {
		return "", err
	}
	if l.reply != "" {
		return l.reply, nil
	}
	if l.term == "" {
		return h.random(ctx)
	}

	slog.Debug("glossary lookup", "term", l.term, "version", l.version)
	return h.describe(ctx, l)
}

func (h *Handler) random(ctx context.Context) (string, error) {
	term, err := h.store.RandomTerm(ctx)
	if glossaryerr.IsNotFound(err) {
		return msgEmpty, nil
	}
	if err != nil {
		return "", err
	}
	return h.describe(ctx, lookup{term: term})
}

func (h *Handler) describe(ctx context.Context, l lookup) (string, error) {
	target, err := h.redirectTarget(ctx, l.term)
	if err != nil {
		return "", err
	}
	if target != nil {
		return h.describeRedirect(ctx, l, target)
	}

	rec, err := h.fetch(ctx, l)
	switch {
	case err == nil:
		return FormatRecord(rec, h.now()), nil
	case glossaryerr.IsOutOfRange(err):
		total, _ := store.TotalOf(err)
		return fmt.Sprintf(msgBadVersion, l.version, l.term, total), nil
	case glossaryerr.IsNotFound(err):
		return h.undefined(ctx, l.term)
	}
	return "", err
}

// describeRedirect answers a lookup of l.term through its redirect to
// target, the target's current record.
func (h *Handler) describeRedirect(ctx context.Context, l lookup, target *store.Record) (string, error) {
	rec := target
	if l.versioned {
		var err error
		rec, err = h.store.GetEntryVersion(ctx, target.Term, l.version)
		if glossaryerr.IsOutOfRange(err) {
			total, _ := store.TotalOf(err)
			return fmt.Sprintf(msgRedirectVersion, l.term, target.Term, total, total), nil
		}
		if err != nil {
			return "", err
		}
	}
	return FormatRedirect(l.term, rec, h.now()), nil
}

// redirectTarget returns the current record of the term that term
// redirects to. A redirect whose target has no definitions is ignored and
// yields nil.
func (h *Handler) redirectTarget(ctx context.Context, term string) (*store.Record, error) {
	r, err := h.store.GetRedirect(ctx, term)
	if glossaryerr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec, err := h.store.GetEntry(ctx, r.To)
	if glossaryerr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// displayTerm returns the term as last written, or the folded form when it
// has no definitions.
func (h *Handler) displayTerm(ctx context.Context, term string) (string, error) {
	rec, err := h.store.GetEntry(ctx, term)
	if glossaryerr.IsNotFound(err) {
		return term, nil
	}
	if err != nil {
		return "", err
	}
	return rec.Term, nil
}

func (h *Handler) fetch(ctx context.Context, l lookup) (*store.Record, error) {
	if l.versioned {
		return h.store.GetEntryVersion(ctx, l.term, l.version)
	}
	return h.store.GetEntry(ctx, l.term)
}

func (h *Handler) undefined(ctx context.Context, term string) (string, error) {
	reply := fmt.Sprintf(msgUndefined, term)

	suggestions, err := Suggest(ctx, h.store, term, h.suggestionLimit)
	if err != nil {
		return "", err
	}
	if len(suggestions) > 0 {
		reply += fmt.Sprintf(msgSuggestions, JoinList(suggestions, "or"))
	}
	return reply, nil
}

// defined reports whether a lookup of term finds a definition, directly or
// through a redirect.
func (h *Handler) defined(ctx context.Context, term string) (bool, error) {
	history, err := h.store.History(ctx, term)
	if err != nil {
		return false, err
	}
	if len(history) > 0 {
		return true, nil
	}
	target, err := h.redirectTarget(ctx, term)
	if err != nil {
		return false, err
	}
	return target != nil, nil
}

// Search lists the terms matching a free-text query.
func (h *Handler) Search(ctx context.Context, req Request) (string, error) {
	if isHelp(req.Args) {
		return Docs, nil
	}

	query := strings.TrimSpace(req.Args)
	if query == "" {
		return msgOopsSearch, nil
	}

	matches, err := h.SearchTerms(ctx, query)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return msgSearchNone, nil
	}
	return fmt.Sprintf(msgSearchFound, JoinList(matches, "and")), nil
}

// SearchTerms returns the union of terms containing any fragment of query
// and terms whose current definition contains query, sorted and without
// case-insensitive duplicates.
func (h *Handler) SearchTerms(ctx context.Context, query string) ([]string, error) {
	byTerm, err := termsMatchingFragments(ctx, h.store, query)
	if err != nil {
		return nil, err
	}
	byDefinition, err := h.store.FindTermsByDefinition(ctx, query)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(byTerm))
	for _, t := range byTerm {
		seen[strings.ToLower(t)] = struct{}{}
	}
	matches := byTerm
	for _, t := range byDefinition {
		if _, ok := seen[strings.ToLower(t)]; ok {
			continue
		}
		seen[strings.ToLower(t)] = struct{}{}
		matches = append(matches, t)
	}
	store.SortTerms(matches)
	return matches, nil
}

// Tardis links to the Slack archive message where a definition was made.
func (h *Handler) Tardis(ctx context.Context, req Request) (string, error) {
	if isHelp(req.Args) {
		return Docs, nil
	}
	if h.slackURL == "" {
		return msgNoSlackURL, nil
	}

	l, err := parseLookup(ctx, req.Args, h.defined)
	if err != nil {
		return "", err
	}
	if l.reply != "" {
		return l.reply, nil
	}
	if l.term == "" {
		return msgOops, nil
	}

	rec, err := h.fetch(ctx, l)
	switch {
	case glossaryerr.IsOutOfRange(err):
		total, _ := store.TotalOf(err)
		return fmt.Sprintf(msgBadVersion, l.version, l.term, total), nil
	case glossaryerr.IsNotFound(err):
		return fmt.Sprintf(msgUndefined, l.term), nil
	case err != nil:
		return "", err
	}

	if rec.Channel == "" {
		return fmt.Sprintf(msgNoChannel, l.term), nil
	}
	url := ArchiveURL(h.slackURL, rec.Channel, rec.CreatedAt)
	return fmt.Sprintf(msgArchiveLink, rec.CreatedAt.UTC().Format(time.ANSIC), url), nil
}

// Redirect sends future lookups of one term to another from
// "<from>:<to>".
func (h *Handler) Redirect(ctx context.Context, req Request) (string, error) {
	if isHelp(req.Args) {
		return msgRedirectDocs, nil
	}

	from, to, ok := parseRedirect(req.Args)
	if !ok {
		return msgOopsRedirect, nil
	}

	err := h.store.AddRedirect(ctx, from, to)
	switch {
	case err == nil:
		slog.Debug("glossary redirect", "from", from, "to", to, "sender", req.Sender)
		return fmt.Sprintf(msgRedirectAdded, from, to), nil
	case glossaryerr.HasCode(err, glossaryerr.CodeStoreRedirectInvalid):
		return fmt.Sprintf(msgRedirectSelf, from), nil
	case glossaryerr.HasCode(err, glossaryerr.CodeStoreRedirectTargetRedirected):
		target, lookupErr := h.displayTerm(ctx, store.TargetOf(err))
		if lookupErr != nil {
			return "", lookupErr
		}
		return fmt.Sprintf(msgRedirectChained, to, target), nil
	case glossaryerr.HasCode(err, glossaryerr.CodeStoreRedirectSourceTargeted):
		return fmt.Sprintf(msgRedirectTargeted, from, store.SourceOf(err)), nil
	}
	return "", err
}

// Unredirect removes the redirect leaving a term.
func (h *Handler) Unredirect(ctx context.Context, req Request) (string, error) {
	if isHelp(req.Args) {
		return msgRedirectDocs, nil
	}

	term := store.NormalizeTerm(req.Args)
	if term == "" || strings.Contains(term, ":") {
		return msgOopsRedirect, nil
	}

	r, err := h.store.GetRedirect(ctx, term)
	if glossaryerr.IsNotFound(err) {
		return fmt.Sprintf(msgNotRedirected, term), nil
	}
	if err != nil {
		return "", err
	}

	if err := h.store.RemoveRedirect(ctx, term); err != nil {
		if glossaryerr.IsNotFound(err) {
			return fmt.Sprintf(msgNotRedirected, term), nil
		}
		return "", err
	}

	target, err := h.displayTerm(ctx, r.To)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(msgRedirectRemoved, term, target), nil
}

// ArchiveURL builds the Slack permalink for a message posted at t.
func ArchiveURL(slackURL, channel string, t time.Time) string {
	return fmt.Sprintf("%s/archives/%s/p%d", slackURL, strings.TrimPrefix(channel, "#"), t.Unix()*1_000_000)
}
