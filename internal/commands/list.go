package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"anto/internal/config"
	"anto/internal/exitcode"
	"anto/internal/output"
	"anto/internal/tasklist"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `anto` (no args) and `anto list`.
type ListCmd struct {
	open bool
}

// SetOpen sets the open-only filter (for testing).
func (c *ListCmd) SetOpen(open bool) {
	c.open = open
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "anto list [--open]" }
func (c *ListCmd) NeedsTasks() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.open, "open", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, tasks *tasklist.TaskList, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	if tasks.IsEmpty() {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	// Numbers always refer to the full list so they can be passed to done/rm.
	p := output.NewPrinter(out)
	for i, t := range tasks.Tasks() {
		if c.open && t.Done {
			continue
		}
		p.Task(i+1, t)
	}
	return exitcode.Success
}
