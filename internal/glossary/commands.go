// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package glossary

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sigil-dev/glossary/internal/metrics"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// Command describes one command the plugin registers with the host.
type Command struct {
	Name    string
	Aliases []string
	Usage   string
	Summary string

	run func(*Handler, context.Context, Request) (string, error)
}

var commands = []Command{
	{
		Name:    CommandDefine,
		Aliases: []string{"set", "gdefine"},
		Usage:   helpDefine,
		Summary: "Add a definition for a glossary entry.",
		run:     (*Handler).Define,
	},
	{
		Name:    CommandLookup,
		Usage:   helpLookup,
		Summary: "Retrieve a definition of an entry.",
		run:     (*Handler).Lookup,
	},
	{
		Name:    CommandSearch,
		Usage:   helpSearch,
		Summary: "Search the entries and definitions.",
		run:     (*Handler).Search,
	},
	{
		Name:    CommandTardis,
		Usage:   "!" + CommandTardis + " <entry> [<num>]",
		Summary: "Link to the Slack archives where an entry was defined.",
		run:     (*Handler).Tardis,
	},
	{
		Name:    CommandRedirect,
		Usage:   helpRedirect,
		Summary: "Redirect lookups of one entry to another.",
		run:     (*Handler).Redirect,
	},
	{
		Name:    CommandUnredirect,
		Usage:   helpUnredirect,
		Summary: "Remove a redirect.",
		run:     (*Handler).Unredirect,
	},
}

// Commands lists the registered commands in a stable order.
func Commands() []Command {
	out := make([]Command, len(commands))
	copy(out, commands)
	return out
}

// Resolve maps a command name or alias to its canonical command.
// A leading "!" is ignored.
func Resolve(name string) (Command, bool) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "!"))
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd, true
		}
		for _, alias := range cmd.Aliases {
			if alias == name {
				return cmd, true
			}
		}
	}
	return Command{}, false
}

// Dispatch runs the named command.
func (h *Handler) Dispatch(ctx context.Context, name string, req Request) (string, error) {
	cmd, ok := Resolve(name)
	if !ok {
		metrics.CommandsTotal.WithLabelValues("unknown", metrics.OutcomeUnknown).Inc()
		return "", glossaryerr.With(
			glossaryerr.Errorf(glossaryerr.CodeGlossaryCommandNotFound, "unknown command %q", name),
			glossaryerr.FieldCommand(name))
	}

	start := time.Now()
	reply, err := cmd.run(h, ctx, req)
	metrics.CommandDurationSeconds.WithLabelValues(cmd.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.CommandsTotal.WithLabelValues(cmd.Name, metrics.OutcomeError).Inc()
		slog.Error("glossary command failed",
			"command", cmd.Name,
			"sender", req.Sender,
			"error", err,
		)
		return "", glossaryerr.With(err, glossaryerr.FieldCommand(cmd.Name))
	}
	metrics.CommandsTotal.WithLabelValues(cmd.Name, metrics.OutcomeOK).Inc()
	return reply, nil
}
