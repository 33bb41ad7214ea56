// Package main defines the CLI structure using kong.
package main

import "github.com/alecthomas/kong"

// CLI defines the command-line interface.
type CLI struct {
	Chat    ChatCmd    `cmd:"" default:"1" help:"Start the interactive assistant"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// ChatCmd starts the interactive store assistant.
type ChatCmd struct {
	Debug  bool   `help:"Start with debug mode on"`
	Config string `help:"Config file path"`
	Model  string `help:"Override the configured model"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

// kongVars returns variables for kong (version info).
func kongVars() kong.Vars {
	return kong.Vars{
		"version": version,
	}
}
