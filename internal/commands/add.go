package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"anto/internal/config"
	"anto/internal/exitcode"
	"anto/internal/task"
	"anto/internal/tasklist"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"todo"} }
func (c *AddCmd) Synopsis() string  { return "Add a task" }
func (c *AddCmd) Usage() string     { return "anto add <description...>" }
func (c *AddCmd) NeedsTasks() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, tasks *tasklist.TaskList, args []string, out, errOut io.Writer) int {
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		fmt.Fprintln(errOut, "error: description required")
		return exitcode.UserError
	}

	if err := tasks.Add(ctx, task.New(description)); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.StorageError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok (%d tasks)\n", tasks.Len())
	}
	return exitcode.Success
}
