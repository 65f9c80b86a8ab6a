// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package plugin

import (
	"os"
	"os/exec"
	"slices"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	protocolVersion = 1
	magicCookieKey  = "GLOSSARY_PLUGIN"
	magicCookieVal  = "Z2xvc3NhcnktY29tbWFuZHM=" // "glossary-commands" base64
)

func HandshakeConfig() plugin.HandshakeConfig {
	return plugin.HandshakeConfig{
		ProtocolVersion:  protocolVersion,
		MagicCookieKey:   magicCookieKey,
		MagicCookieValue: magicCookieVal,
	}
}

// PluginMap returns the plugin set. impl is nil on the host side.
func PluginMap(impl CommandPlugin) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginName: &CommandRPCPlugin{Impl: impl},
	}
}

// Serve runs impl as a plugin process. It blocks until the host disconnects.
func Serve(impl CommandPlugin, logger hclog.Logger) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: HandshakeConfig(),
		Plugins:         PluginMap(impl),
		Logger:          logger,
	})
}

// ClientConfig builds the host-side configuration for launching the plugin
// binary, optionally through a wrapper command such as "nice -n 10".
func ClientConfig(binaryPath string, wrapperCmd []string, logger hclog.Logger) *plugin.ClientConfig {
	cmd := buildCommand(binaryPath, wrapperCmd)
	cmd.Args = append(cmd.Args, "serve")

	return &plugin.ClientConfig{
		HandshakeConfig:  HandshakeConfig(),
		Plugins:          PluginMap(nil),
		Cmd:              cmd,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
		Logger:           logger,
	}
}

func buildCommand(binaryPath string, wrapperCmd []string) *exec.Cmd {
	if len(wrapperCmd) == 0 {
		return exec.Command(binaryPath)
	}

	args := append(slices.Clone(wrapperCmd), binaryPath)
	return exec.Command(args[0], args[1:]...)
}

// NewLogger returns the hclog logger handed to go-plugin, writing to stderr
// at the given level ("debug", "info", "warn", "error").
func NewLogger(name, level string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  hclog.LevelFromString(level),
		Output: os.Stderr,
	})
}
