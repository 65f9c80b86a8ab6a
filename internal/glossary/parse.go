// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package glossary

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sigil-dev/glossary/internal/store"
)

// allowedPunct lists the ASCII punctuation permitted inside a term.
const allowedPunct = "_-"

const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// invalidTermChar returns the first character in term that may not appear
// in a glossary entry.
func invalidTermChar(term string) (rune, bool) {
	for _, r := range term {
		if strings.ContainsRune(asciiPunct, r) && !strings.ContainsRune(allowedPunct, r) {
			return r, true
		}
	}
	return 0, false
}

func isHelp(args string) bool {
	return strings.EqualFold(strings.TrimSpace(args), "help")
}

// definition is a parsed define argument. reply is set when parsing failed
// and holds the message for the user.
type definition struct {
	term       string
	definition string
	reply      string
}

func parseDefinition(args string) definition {
	args = strings.TrimSpace(args)

	if !strings.Contains(args, ":") {
		return definition{reply: msgOops}
	}
	if strings.Contains(args, "::") {
		return definition{reply: msgDoubleSeparator}
	}

	rawTerm, rawDef, _ := strings.Cut(args, ":")
	term := store.NormalizeTerm(rawTerm)
	def := strings.TrimSpace(rawDef)
	if term == "" || def == "" {
		return definition{reply: msgOops}
	}
	if c, bad := invalidTermChar(term); bad {
		return definition{reply: fmt.Sprintf(msgInvalidChar, c)}
	}
	return definition{term: term, definition: def}
}

// lookup is a parsed whatis/tardis argument. Without versioned the current
// definition is wanted.
type lookup struct {
	term      string
	version   int
	versioned bool
	reply     string
}

// parseLookup accepts "<term>", "<term> <n>" and "<term>: <n>". A trailing
// integer is a version unless the whole text names a defined term, which is
// checked through exists.
func parseLookup(ctx context.Context, args string, exists func(context.Context, string) (bool, error)) (lookup, error) {
	args = store.NormalizeTerm(args)

	if rawTerm, rawVersion, ok := strings.Cut(args, ":"); ok {
		v, err := strconv.Atoi(strings.TrimSpace(rawVersion))
		if err != nil {
			return lookup{reply: msgOops}, nil
		}
		return lookup{term: store.NormalizeTerm(rawTerm), version: v, versioned: true}, nil
	}

	idx := strings.LastIndexByte(args, ' ')
	if idx < 0 {
		return lookup{term: args}, nil
	}
	v, err := strconv.Atoi(args[idx+1:])
	if err != nil {
		return lookup{term: args}, nil
	}

	defined, err := exists(ctx, args)
	if err != nil {
		return lookup{}, err
	}
	if defined {
		return lookup{term: args}, nil
	}
	return lookup{term: args[:idx], version: v, versioned: true}, nil
}

// parseRedirect splits "<from>:<to>". Exactly one colon is accepted and
// both sides must be non-empty.
func parseRedirect(args string) (from, to string, ok bool) {
	if strings.Count(args, ":") != 1 {
		return "", "", false
	}
	rawFrom, rawTo, _ := strings.Cut(args, ":")
	from, to = store.NormalizeTerm(rawFrom), store.NormalizeTerm(rawTo)
	if from == "" || to == "" {
		return "", "", false
	}
	return from, to, true
}
