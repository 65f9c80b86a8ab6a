// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/sigil-dev/glossary/internal/glossary"
	"github.com/sigil-dev/glossary/internal/store"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

func (s *Server) registerRoutes() {
	// Term endpoints
	huma.Register(s.api, huma.Operation{
		OperationID: "list-terms",
		Method:      http.MethodGet,
		Path:        "/api/v1/terms",
		Summary:     "List defined terms",
		Tags:        []string{"terms"},
	}, s.handleListTerms)

	huma.Register(s.api, huma.Operation{
		OperationID: "random-term",
		Method:      http.MethodGet,
		Path:        "/api/v1/random",
		Summary:     "Current definition of a random term",
		Tags:        []string{"terms"},
	}, s.handleRandomTerm)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-term",
		Method:      http.MethodGet,
		Path:        "/api/v1/terms/{term}",
		Summary:     "Current or historical definition of a term",
		Tags:        []string{"terms"},
	}, s.handleGetTerm)

	huma.Register(s.api, huma.Operation{
		OperationID: "term-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/terms/{term}/history",
		Summary:     "Every definition of a term, oldest first",
		Tags:        []string{"terms"},
	}, s.handleTermHistory)

	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search terms and definitions",
		Tags:        []string{"terms"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-redirect",
		Method:      http.MethodGet,
		Path:        "/api/v1/redirects/{term}",
		Summary:     "Where a term redirects to",
		Tags:        []string{"redirects"},
	}, s.handleGetRedirect)

	// Chat command endpoint
	huma.Register(s.api, huma.Operation{
		OperationID: "run-command",
		Method:      http.MethodPost,
		Path:        "/api/v1/commands",
		Summary:     "Run a glossary chat command",
		Tags:        []string{"commands"},
	}, s.handleRunCommand)
}

// --- Request/Response types for huma ---

type listTermsOutput struct {
	Body struct {
		Terms []string `json:"terms"`
	}
}

type recordOutput struct {
	Body store.Record
}

type getTermInput struct {
	Term    string `path:"term" doc:"Glossary term"`
	Version int    `query:"version" minimum:"0" doc:"1-based definition number; 0 or absent for the current definition"`
}

type termInput struct {
	Term string `path:"term" doc:"Glossary term"`
}

type historyOutput struct {
	Body struct {
		Entries []*store.Record `json:"entries"`
	}
}

type redirectOutput struct {
	Body store.Redirect
}

type searchInput struct {
	Query string `query:"q" required:"true" minLength:"1" doc:"Search text"`
}

type runCommandInput struct {
	Body struct {
		Command string `json:"command" minLength:"1" doc:"Command name, e.g. whatis"`
		Sender  string `json:"sender,omitempty" doc:"Who is running the command"`
		Channel string `json:"channel,omitempty" doc:"Where the command was run"`
		Args    string `json:"args,omitempty" doc:"Argument text"`
	}
}

type runCommandOutput struct {
	Body struct {
		Reply string `json:"reply" doc:"Chat reply"`
	}
}

// --- Handlers ---

func (s *Server) handleListTerms(ctx context.Context, _ *struct{}) (*listTermsOutput, error) {
	terms, err := s.services.entries.ListTerms(ctx)
	if err != nil {
		return nil, apiError(err, "listing terms")
	}
	return termsOutput(terms), nil
}

// termsOutput never serializes a nil slice, so an empty result is [] not null.
func termsOutput(terms []string) *listTermsOutput {
	out := &listTermsOutput{}
	out.Body.Terms = terms
	if out.Body.Terms == nil {
		out.Body.Terms = []string{}
	}
	return out
}

func (s *Server) handleRandomTerm(ctx context.Context, _ *struct{}) (*recordOutput, error) {
	term, err := s.services.entries.RandomTerm(ctx)
	if err != nil {
		return nil, apiError(err, "picking a random term")
	}
	rec, err := s.services.entries.GetEntry(ctx, term)
	if err != nil {
		return nil, apiError(err, "loading term")
	}
	return &recordOutput{Body: *rec}, nil
}

func (s *Server) handleGetTerm(ctx context.Context, input *getTermInput) (*recordOutput, error) {
	var (
		rec *store.Record
		err error
	)
	if input.Version == 0 {
		rec, err = s.services.entries.GetEntry(ctx, input.Term)
	} else {
		rec, err = s.services.entries.GetEntryVersion(ctx, input.Term, input.Version)
	}
	if err != nil {
		return nil, apiError(err, "loading term")
	}
	return &recordOutput{Body: *rec}, nil
}

func (s *Server) handleTermHistory(ctx context.Context, input *termInput) (*historyOutput, error) {
	history, err := s.services.entries.History(ctx, input.Term)
	if err != nil {
		return nil, apiError(err, "loading history")
	}
	if len(history) == 0 {
		return nil, apiError(store.NotFound(store.NormalizeTerm(input.Term)), "loading history")
	}
	out := &historyOutput{}
	out.Body.Entries = history
	return out, nil
}

func (s *Server) handleSearch(ctx context.Context, input *searchInput) (*listTermsOutput, error) {
	terms, err := s.services.commands.SearchTerms(ctx, input.Query)
	if err != nil {
		return nil, apiError(err, "searching")
	}
	return termsOutput(terms), nil
}

func (s *Server) handleGetRedirect(ctx context.Context, input *termInput) (*redirectOutput, error) {
	r, err := s.services.entries.GetRedirect(ctx, input.Term)
	if err != nil {
		return nil, apiError(err, "loading redirect")
	}
	return &redirectOutput{Body: *r}, nil
}

func (s *Server) handleRunCommand(ctx context.Context, input *runCommandInput) (*runCommandOutput, error) {
	reply, err := s.services.commands.Dispatch(ctx, input.Body.Command, glossary.Request{
		Sender:  input.Body.Sender,
		Channel: input.Body.Channel,
		Args:    input.Body.Args,
	})
	if err != nil {
		return nil, apiError(err, "running command")
	}
	out := &runCommandOutput{}
	out.Body.Reply = reply
	return out, nil
}

// apiError maps a coded error onto the matching huma status error.
func apiError(err error, action string) error {
	switch glossaryerr.HTTPStatus(err) {
	case http.StatusNotFound:
		return huma.Error404NotFound(err.Error())
	case http.StatusBadRequest:
		return huma.Error400BadRequest(err.Error())
	default:
		slog.Error("api request failed", "action", action, "code", glossaryerr.CodeOf(err), "error", err)
		return huma.Error500InternalServerError(action)
	}
}
