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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "anto rm <n>" }
func (c *RmCmd) NeedsTasks() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, tasks *tasklist.TaskList, args []string, out, errOut io.Writer) int {
	num, ok := parseTaskNumber(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	removed, err := tasks.Delete(ctx, num-1)
	if err != nil {
		return reportTaskError(errOut, num, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "deleted: %s\n", output.NewPrinter(out).Line(removed))
	}
	return exitcode.Success
}
