package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"anto/internal/commands"
	"anto/internal/config"
	"anto/internal/exitcode"
	"anto/internal/logging"
	"anto/internal/service"
	"anto/internal/tasklist"
)

// ServiceFactory opens the storage backend for cfg.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> list all tasks
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return reportFlagError(errOut, err)
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: config: %v\n", err)
		return exitcode.ConfigError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logger := logging.New(errOut, cfg.LogLevel, cfg.Debug)
	logger.Debug("dispatching", "command", cmd.Name(), "config", cfg.Dir)

	if !cmd.NeedsTasks() {
		return cmd.Run(ctx, cfg, nil, positionalArgs, out, errOut)
	}

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: no storage backend configured")
		return exitcode.ConfigError
	}

	svc, err := d.factory(ctx, cfg, logger)
	if err != nil {
		return reportBackendError(errOut, err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("closing backend", "err", err)
		}
	}()

	// The session's task list starts from whatever storage holds.
	loaded, err := svc.Load(ctx)
	if err != nil {
		return reportBackendError(errOut, err)
	}
	logger.Debug("session loaded", "backend", cfg.Backend, "tasks", len(loaded))

	return cmd.Run(ctx, cfg, tasklist.New(loaded, svc), positionalArgs, out, errOut)
}

func reportBackendError(errOut io.Writer, err error) int {
	if errors.Is(err, service.ErrAuth) {
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.ConfigError
	}
	fmt.Fprintf(errOut, "error: storage error: %v\n", err)
	return exitcode.StorageError
}

func reportFlagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	// Missing flag value
	if strings.HasPrefix(errStr, "flag needs an argument:") {
		flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
		return exitcode.UserError
	}

	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
