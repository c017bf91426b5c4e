package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"anto/internal/config"
	"anto/internal/exitcode"
	"anto/internal/output"
	"anto/internal/task"
	"anto/internal/tasklist"
)

func init() {
	Register(&FindCmd{})
}

// FindCmd implements the find command.
type FindCmd struct{}

func (c *FindCmd) Name() string      { return "find" }
func (c *FindCmd) Aliases() []string { return nil }
func (c *FindCmd) Synopsis() string  { return "Find tasks containing a keyword" }
func (c *FindCmd) Usage() string     { return "anto find <keyword...>" }
func (c *FindCmd) NeedsTasks() bool  { return true }

func (c *FindCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *FindCmd) Run(ctx context.Context, cfg *config.Config, tasks *tasklist.TaskList, args []string, out, errOut io.Writer) int {
	keyword := strings.Join(args, " ")
	if keyword == "" {
		fmt.Fprintln(errOut, "error: keyword required")
		return exitcode.UserError
	}

	found := tasks.Find(keyword)
	if len(found) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no matching tasks")
		}
		return exitcode.Success
	}

	// Print each match under its number in the full list.
	numbers := make(map[*task.Task]int, tasks.Len())
	for i, t := range tasks.Tasks() {
		numbers[t] = i + 1
	}
	p := output.NewPrinter(out)
	for _, t := range found {
		p.Task(numbers[t], t)
	}
	return exitcode.Success
}
