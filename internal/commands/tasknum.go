package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"anto/internal/exitcode"
	"anto/internal/tasklist"
)

// ErrTaskNumberRequired indicates no task number was provided.
var ErrTaskNumberRequired = errors.New("task number required")

// ParseTaskNumber parses the 1-based task number in args[0].
// The number is not range-checked; the task list does that.
func ParseTaskNumber(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskNumberRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}
	if !isAllDigits(args[0]) {
		return 0, fmt.Errorf("invalid task number: %s", args[0])
	}
	num, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid task number: %s", args[0])
	}
	return num, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// reportTaskError prints err for the task numbered num and returns the exit code.
func reportTaskError(errOut io.Writer, num int, err error) int {
	if errors.Is(err, tasklist.ErrIndexOutOfRange) {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", num)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.StorageError
}

// parseTaskNumber wraps ParseTaskNumber and prints the parse error.
func parseTaskNumber(args []string, errOut io.Writer) (int, bool) {
	num, err := ParseTaskNumber(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 0, false
	}
	return num, true
}
