// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package plugin

import (
	"net/rpc"

	"github.com/hashicorp/go-plugin"

	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// CommandRPCPlugin is the go-plugin net/rpc binding for CommandPlugin.
// Impl is only set on the plugin side.
type CommandRPCPlugin struct {
	Impl CommandPlugin
}

func (p *CommandRPCPlugin) Server(*plugin.MuxBroker) (interface{}, error) {
	if p.Impl == nil {
		return nil, glossaryerr.New(glossaryerr.CodePluginDispenseFailure, "no command plugin implementation to serve")
	}
	return &CommandRPCServer{Impl: p.Impl}, nil
}

func (p *CommandRPCPlugin) Client(_ *plugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &CommandRPCClient{client: c}, nil
}

// CommandRPCServer is the net/rpc receiver registered in the plugin process.
type CommandRPCServer struct {
	Impl CommandPlugin
}

func (s *CommandRPCServer) Commands(_ interface{}, resp *[]CommandInfo) error {
	infos, err := s.Impl.Commands()
	if err != nil {
		return err
	}
	*resp = infos
	return nil
}

func (s *CommandRPCServer) Handle(inv Invocation, resp *string) error {
	reply, err := s.Impl.Handle(inv)
	if err != nil {
		return err
	}
	*resp = reply
	return nil
}

// Compile-time interface check.
var _ CommandPlugin = (*CommandRPCClient)(nil)

// CommandRPCClient implements CommandPlugin on the host side.
type CommandRPCClient struct {
	client *rpc.Client
}

func (c *CommandRPCClient) Commands() ([]CommandInfo, error) {
	var resp []CommandInfo
	if err := c.client.Call("Plugin.Commands", new(interface{}), &resp); err != nil {
		return nil, glossaryerr.Wrap(err, glossaryerr.CodePluginRPCCallFailure, "listing commands")
	}
	return resp, nil
}

func (c *CommandRPCClient) Handle(inv Invocation) (string, error) {
	var resp string
	if err := c.client.Call("Plugin.Handle", inv, &resp); err != nil {
		return "", glossaryerr.Wrap(err, glossaryerr.CodePluginRPCCallFailure, "handling command",
			glossaryerr.FieldCommand(inv.Command))
	}
	return resp, nil
}
