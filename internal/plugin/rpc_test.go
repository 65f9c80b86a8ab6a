// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package plugin_test

import (
	"errors"
	"path/filepath"
	"testing"

	goplugin "github.com/hashicorp/go-plugin"
	"github.com/sigil-dev/glossary/internal/glossary"
	"github.com/sigil-dev/glossary/internal/plugin"
	"github.com/sigil-dev/glossary/internal/store/sqlite"
	glossaryerr "github.com/sigil-dev/glossary/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlerPlugin(t *testing.T) *plugin.HandlerPlugin {
	t.Helper()
	s, err := sqlite.NewEntryStore(filepath.Join(t.TempDir(), "glossary.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return plugin.NewHandlerPlugin(glossary.NewHandler(glossary.HandlerConfig{Store: s}))
}

// dispense connects a host-side client to impl over an in-memory net/rpc pipe.
func dispense(t *testing.T, impl plugin.CommandPlugin) plugin.CommandPlugin {
	t.Helper()
	client, _ := goplugin.TestPluginRPCConn(t, plugin.PluginMap(impl), nil)
	t.Cleanup(func() { _ = client.Close() })

	raw, err := client.Dispense(plugin.PluginName)
	require.NoError(t, err)

	cp, ok := raw.(plugin.CommandPlugin)
	require.True(t, ok, "dispensed %T", raw)
	return cp
}

func TestRPC_Commands(t *testing.T) {
	cp := dispense(t, newHandlerPlugin(t))

	infos, err := cp.Commands()
	require.NoError(t, err)

	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	assert.ElementsMatch(t, []string{"define", "whatis", "search", "tardis", "redirect", "unredirect"}, names)
}

func TestRPC_DefineThenLookup(t *testing.T) {
	cp := dispense(t, newHandlerPlugin(t))

	reply, err := cp.Handle(plugin.Invocation{Command: "define", Sender: "alice", Channel: "#general", Args: "fish: a swimmy thing"})
	require.NoError(t, err)
	assert.Contains(t, reply, "1st time")

	reply, err = cp.Handle(plugin.Invocation{Command: "!whatis", Sender: "bob", Args: "fish"})
	require.NoError(t, err)
	assert.Contains(t, reply, "fish (1/1): a swimmy thing")
	assert.Contains(t, reply, "defined by alice")
}

type erroringPlugin struct{}

func (erroringPlugin) Commands() ([]plugin.CommandInfo, error) { return nil, errors.New("no commands") }
func (erroringPlugin) Handle(plugin.Invocation) (string, error) {
	return "", errors.New("database is locked")
}

func TestRPC_ErrorsCrossTheWire(t *testing.T) {
	cp := dispense(t, erroringPlugin{})

	_, err := cp.Handle(plugin.Invocation{Command: "whatis", Args: "fish"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.True(t, glossaryerr.HasCode(err, glossaryerr.CodePluginRPCCallFailure))

	_, err = cp.Commands()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no commands")
}

func TestRPC_UnknownCommand(t *testing.T) {
	cp := dispense(t, newHandlerPlugin(t))

	_, err := cp.Handle(plugin.Invocation{Command: "frobnicate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frobnicate")
}
