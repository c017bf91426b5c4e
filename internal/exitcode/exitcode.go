// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, task number out of range).
	UserError = 1

	// ConfigError indicates a config or auth error.
	ConfigError = 2

	// StorageError indicates the storage backend failed.
	StorageError = 3
)
