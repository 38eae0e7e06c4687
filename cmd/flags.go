package cmd

import (
	"github.com/spf13/pflag"
)

// NewFlagSet defines the pflags used for argument validation and help.
func NewFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("envm", pflag.ContinueOnError)

	// Modifiers
	fs.BoolP("verbose", "v", false, "Verbose output")
	fs.BoolP("debug", "x", false, "Debug output")
	fs.BoolP("yes", "y", false, "Assume yes")
	fs.StringP("directory", "C", "", "Run as if started in this directory")

	// Commands spelled as flags
	fs.BoolP("help", "h", false, "Show help")
	fs.BoolP("version", "V", false, "Show version")

	return fs
}

// flagCommands maps the flags that act as commands to the command they run.
var flagCommands = map[string]string{
	"help":    "help",
	"version": "version",
}

// commandArity describes how many arguments a command accepts.
type commandArity struct {
	minArgs int
	maxArgs int
}

var commands = map[string]commandArity{
	"init":      {0, 0},
	"use":       {1, 1},
	"new":       {1, 1},
	"list":      {0, 0},
	"remove":    {1, 1},
	"current":   {0, 0},
	"diff":      {0, 1},
	"gitignore": {0, 0},
	"help":      {0, 1},
	"version":   {0, 0},
}

// commandAliases maps shorthand command names to the command they stand for.
var commandAliases = map[string]string{
	"ls": "list",
	"rm": "remove",
}
