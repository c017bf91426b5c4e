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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "anto help" }
func (c *HelpCmd) NeedsTasks() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, tasks *tasklist.TaskList, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  anto                              List all tasks
  anto list [common flags] [--open] List tasks (alias: ls)
  anto add [common flags] <description...>
                                    Add a task (alias: todo)
  anto done [common flags] <n>      Mark task n completed (alias: mark)
  anto unmark [common flags] <n>    Mark task n not completed (alias: undo)
  anto rm [common flags] <n>        Delete task n (alias: delete)
  anto find [common flags] <keyword...>
                                    List tasks containing keyword
  anto login [common flags]         Authorize the Google Tasks backend
  anto logout [common flags]        Remove stored Google credentials
  anto help
  anto version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
