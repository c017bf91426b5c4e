// Package main is the entry point for the anto CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"anto/internal/backend"
	"anto/internal/cli"
	"anto/internal/commands"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, backend.Open)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
