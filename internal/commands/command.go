// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"anto/internal/config"
	"anto/internal/tasklist"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsTasks returns true if the command operates on the task list.
	// Commands like help, version, login, logout return false.
	NeedsTasks() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided.
	// tasks is nil if NeedsTasks() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, tasks *tasklist.TaskList, args []string, out, errOut io.Writer) int
}
