// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sigil-dev/glossary/internal/glossary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatchCall struct {
	command string
	req     glossary.Request
}

func recordingDispatch(calls *[]dispatchCall, reply string, err error) dispatchFunc {
	return func(_ context.Context, command string, req glossary.Request) (string, error) {
		*calls = append(*calls, dispatchCall{command: command, req: req})
		return reply, err
	}
}

func typeText(m chatModel, text string) chatModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(chatModel)
}

func TestParseChatLine(t *testing.T) {
	tests := []struct {
		in      string
		command string
		args    string
		ok      bool
	}{
		{"!define fish: a swimmy thing", "define", "fish: a swimmy thing", true},
		{"!whatis", "whatis", "", true},
		{"  !search  big fish ", "search", "big fish", true},
		{"fish", glossary.CommandLookup, "fish", true},
		{"!", "", "", false},
		{"   ", glossary.CommandLookup, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			command, args, ok := parseChatLine(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.command, command)
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestChatModel_SubmitDispatchesCommand(t *testing.T) {
	var calls []dispatchCall
	m := newChatModel(recordingDispatch(&calls, "fish (1/1): a swimmy thing", nil), "alice", "terminal")

	m = typeText(m, "!whatis fish")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(chatModel)

	require.NotNil(t, cmd)
	assert.True(t, m.pending)
	assert.Empty(t, m.input.Value())
	require.Len(t, m.lines, 1)
	assert.Equal(t, "alice", m.lines[0].who)

	msg := cmd()
	require.Len(t, calls, 1)
	assert.Equal(t, "whatis", calls[0].command)
	assert.Equal(t, glossary.Request{Sender: "alice", Channel: "terminal", Args: "fish"}, calls[0].req)

	next, _ = m.Update(msg)
	m = next.(chatModel)
	assert.False(t, m.pending)
	require.Len(t, m.lines, 2)
	assert.Equal(t, chatBotName, m.lines[1].who)
	assert.Equal(t, "fish (1/1): a swimmy thing", m.lines[1].text)
	assert.Contains(t, m.View(), "a swimmy thing")
}

func TestChatModel_ErrorReply(t *testing.T) {
	m := newChatModel(nil, "alice", "terminal")
	m.pending = true

	next, _ := m.Update(replyMsg{err: errors.New("database is locked")})
	m = next.(chatModel)

	assert.False(t, m.pending)
	require.Len(t, m.lines, 1)
	assert.True(t, m.lines[0].isErr)
	assert.Contains(t, m.View(), "database is locked")
}

func TestChatModel_IgnoresEmptyAndPendingInput(t *testing.T) {
	var calls []dispatchCall
	m := newChatModel(recordingDispatch(&calls, "", nil), "alice", "terminal")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, next.(chatModel).lines)

	m = typeText(m, "fish")
	m.pending = true
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, next.(chatModel).lines)
	assert.Empty(t, calls)
}

func TestChatModel_BareBangShowsHint(t *testing.T) {
	m := newChatModel(nil, "alice", "terminal")
	m = typeText(m, "!")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(chatModel)

	assert.Nil(t, cmd)
	require.Len(t, m.lines, 2)
	assert.Equal(t, chatHint, m.lines[1].text)
}

func TestChatModel_Quit(t *testing.T) {
	m := newChatModel(nil, "alice", "terminal")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.True(t, next.(chatModel).quitting)
	assert.Empty(t, next.(chatModel).View())

	m = typeText(m, "/quit")
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, next.(chatModel).quitting)
}

func TestChatModel_KeepsRecentLines(t *testing.T) {
	m := newChatModel(nil, "alice", "terminal")
	for i := 0; i < chatMaxLines+10; i++ {
		m.appendLine(chatLine{who: "alice", text: "x"})
	}
	assert.Len(t, m.lines, chatMaxLines)
}
