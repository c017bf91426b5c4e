package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"anto/internal/config"
	"anto/internal/exitcode"
	"anto/internal/tasklist"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Remove stored Google credentials" }
func (c *LogoutCmd) Usage() string     { return "anto logout [common flags]" }
func (c *LogoutCmd) NeedsTasks() bool  { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, tasks *tasklist.TaskList, args []string, out, errOut io.Writer) int {
	if !cfg.HasToken() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	if err := cfg.RemoveToken(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove token: %v\n", err)
		return exitcode.ConfigError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
