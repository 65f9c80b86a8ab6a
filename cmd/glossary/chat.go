// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sigil-dev/glossary/internal/glossary"
)

const (
	chatBotName  = "glossary"
	chatMaxLines = 200
	chatHint     = "Commands start with !, e.g. !define fish: a swimmy thing. Anything else is looked up."
)

// dispatchFunc runs one glossary command.
type dispatchFunc func(ctx context.Context, command string, req glossary.Request) (string, error)

// --- bubbletea messages ---

type replyMsg struct {
	reply string
	err   error
}

// --- lipgloss styles ---

var (
	chatTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	senderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	botStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	chatErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	chatDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type chatLine struct {
	who   string
	text  string
	isErr bool
}

// chatModel is the bubbletea model for the interactive glossary session.
type chatModel struct {
	input    textinput.Model
	dispatch dispatchFunc
	sender   string
	channel  string
	lines    []chatLine
	pending  bool
	quitting bool
}

func newChatModel(dispatch dispatchFunc, sender, channel string) chatModel {
	input := textinput.New()
	input.Placeholder = "!whatis fish"
	input.Prompt = "> "
	input.Focus()

	return chatModel{
		input:    input,
		dispatch: dispatch,
		sender:   sender,
		channel:  channel,
	}
}

// parseChatLine splits "!cmd args" into its parts. Text without a leading
// "!" is a lookup.
func parseChatLine(text string) (command, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "!") {
		return glossary.CommandLookup, text, text != ""
	}

	command, args, _ = strings.Cut(text[1:], " ")
	return command, strings.TrimSpace(args), command != ""
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}

	case replyMsg:
		m.pending = false
		if msg.err != nil {
			m.appendLine(chatLine{who: chatBotName, text: msg.err.Error(), isErr: true})
		} else {
			m.appendLine(chatLine{who: chatBotName, text: msg.reply})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.pending {
		return m, nil
	}
	m.input.Reset()

	if text == "/quit" || text == "/exit" {
		m.quitting = true
		return m, tea.Quit
	}

	m.appendLine(chatLine{who: m.sender, text: text})

	command, args, ok := parseChatLine(text)
	if !ok {
		m.appendLine(chatLine{who: chatBotName, text: chatHint, isErr: true})
		return m, nil
	}

	m.pending = true
	dispatch, req := m.dispatch, glossary.Request{Sender: m.sender, Channel: m.channel, Args: args}
	return m, func() tea.Msg {
		reply, err := dispatch(context.Background(), command, req)
		return replyMsg{reply: reply, err: err}
	}
}

func (m *chatModel) appendLine(l chatLine) {
	m.lines = append(m.lines, l)
	if len(m.lines) > chatMaxLines {
		m.lines = m.lines[len(m.lines)-chatMaxLines:]
	}
}

func (m chatModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(chatTitleStyle.Render("glossary"))
	b.WriteString("\n\n")

	for _, l := range m.lines {
		who := senderStyle.Render(l.who)
		text := l.text
		if l.who == chatBotName {
			who = botStyle.Render(l.who)
		}
		if l.isErr {
			text = chatErrorStyle.Render(text)
		}
		b.WriteString(who + ": " + text + "\n")
	}
	if m.pending {
		b.WriteString(chatDimStyle.Render("..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(chatDimStyle.Render("enter to send, esc to quit"))
	b.WriteString("\n")
	return b.String()
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the glossary interactively",
		Long:  "Start an interactive session that runs the glossary commands (!define, !whatis, !search, !tardis, !redirect, !unredirect) against the local store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, _ := cmd.Flags().GetString("sender")
			channel, _ := cmd.Flags().GetString("channel")

			app, err := WireApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			p := tea.NewProgram(newChatModel(app.Handler.Dispatch, sender, channel),
				tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().String("sender", os.Getenv("USER"), "name to define entries as")
	cmd.Flags().String("channel", "terminal", "channel recorded with new entries")

	return cmd
}
