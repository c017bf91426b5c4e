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
	Register(&DoneCmd{})
	Register(&UnmarkCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"mark"} }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "anto done <n>" }
func (c *DoneCmd) NeedsTasks() bool  { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, tasks *tasklist.TaskList, args []string, out, errOut io.Writer) int {
	return runSetDone(ctx, cfg, tasks, true, args, out, errOut)
}

// UnmarkCmd implements the unmark command.
type UnmarkCmd struct{}

func (c *UnmarkCmd) Name() string      { return "unmark" }
func (c *UnmarkCmd) Aliases() []string { return []string{"undo"} }
func (c *UnmarkCmd) Synopsis() string  { return "Mark a task not completed" }
func (c *UnmarkCmd) Usage() string     { return "anto unmark <n>" }
func (c *UnmarkCmd) NeedsTasks() bool  { return true }

func (c *UnmarkCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UnmarkCmd) Run(ctx context.Context, cfg *config.Config, tasks *tasklist.TaskList, args []string, out, errOut io.Writer) int {
	return runSetDone(ctx, cfg, tasks, false, args, out, errOut)
}

// runSetDone is the shared implementation for done and unmark.
func runSetDone(ctx context.Context, cfg *config.Config, tasks *tasklist.TaskList, done bool, args []string, out, errOut io.Writer) int {
	num, ok := parseTaskNumber(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	var err error
	if done {
		err = tasks.MarkDone(ctx, num-1)
	} else {
		err = tasks.Unmark(ctx, num-1)
	}
	if err != nil {
		return reportTaskError(errOut, num, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
