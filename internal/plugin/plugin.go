// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package plugin exposes the glossary commands to a host bot over
// hashicorp/go-plugin, and provides the host-side client used to launch and
// talk to a plugin binary.
package plugin

import (
	"context"

	"github.com/sigil-dev/glossary/internal/glossary"
)

// PluginName is the key the command plugin is dispensed under.
const PluginName = "glossary"

// CommandInfo describes one command for the host's router.
type CommandInfo struct {
	Name    string
	Aliases []string
	Usage   string
	Summary string
}

// Invocation is one host → plugin command call.
type Invocation struct {
	Command string
	Sender  string
	Channel string
	Args    string
}

// CommandPlugin is the contract between the host and the plugin.
type CommandPlugin interface {
	Commands() ([]CommandInfo, error)
	Handle(inv Invocation) (string, error)
}

// Compile-time interface check.
var _ CommandPlugin = (*HandlerPlugin)(nil)

// HandlerPlugin serves CommandPlugin from a glossary.Handler.
type HandlerPlugin struct {
	handler *glossary.Handler
}

// NewHandlerPlugin wraps h.
func NewHandlerPlugin(h *glossary.Handler) *HandlerPlugin {
	return &HandlerPlugin{handler: h}
}

func (p *HandlerPlugin) Commands() ([]CommandInfo, error) {
	cmds := glossary.Commands()
	infos := make([]CommandInfo, len(cmds))
	for i, c := range cmds {
		infos[i] = CommandInfo{
			Name:    c.Name,
			Aliases: c.Aliases,
			Usage:   c.Usage,
			Summary: c.Summary,
		}
	}
	return infos, nil
}

func (p *HandlerPlugin) Handle(inv Invocation) (string, error) {
	return p.handler.Dispatch(context.Background(), inv.Command, glossary.Request{
		Sender:  inv.Sender,
		Channel: inv.Channel,
		Args:    inv.Args,
	})
}
