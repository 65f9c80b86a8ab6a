// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package plugin

import (
	"log/slog"

	"github.com/hashicorp/go-plugin"

	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
)

// Client is a host-side connection to a launched plugin process.
type Client struct {
	lifecycle
	raw    *plugin.Client
	plugin CommandPlugin
}

// Launch starts the plugin described by cfg and dispenses its command
// plugin. The process is killed if the handshake or dispense fails.
func Launch(cfg *plugin.ClientConfig) (*Client, error) {
	c := &Client{lifecycle: lifecycle{state: StateLaunching}}
	c.raw = plugin.NewClient(cfg)

	if err := c.transitionTo(StateHandshaking); err != nil {
		c.raw.Kill()
		return nil, err
	}

	rpcClient, err := c.raw.Client()
	if err != nil {
		return nil, c.fail(glossaryerr.Wrap(err, glossaryerr.CodePluginLaunchFailure, "starting plugin"))
	}

	raw, err := rpcClient.Dispense(PluginName)
	if err != nil {
		return nil, c.fail(glossaryerr.Wrap(err, glossaryerr.CodePluginDispenseFailure, "dispensing plugin"))
	}

	impl, ok := raw.(CommandPlugin)
	if !ok {
		return nil, c.fail(glossaryerr.Errorf(glossaryerr.CodePluginTypeInvalid,
			"dispensed plugin has type %T", raw))
	}
	c.plugin = impl

	if err := c.transitionTo(StateRunning); err != nil {
		return nil, c.fail(err)
	}
	slog.Debug("glossary plugin running", "protocol", c.raw.Protocol())
	return c, nil
}

func (c *Client) fail(err error) error {
	_ = c.transitionTo(StateError)
	c.raw.Kill()
	return err
}

func (c *Client) Commands() ([]CommandInfo, error) {
	return c.plugin.Commands()
}

func (c *Client) Handle(inv Invocation) (string, error) {
	return c.plugin.Handle(inv)
}

// Close stops the plugin process.
func (c *Client) Close() error {
	if err := c.transitionTo(StateStopping); err != nil {
		return err
	}
	c.raw.Kill()
	return c.transitionTo(StateStopped)
}
