package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"anto/internal/backend"
	"anto/internal/cli"
	"anto/internal/commands"
	"anto/internal/config"
	"anto/internal/exitcode"
	"anto/internal/service"
	"anto/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeStore.
func testFactory(svc *testutil.FakeStore) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error) {
		return svc, nil
	}
}

// run dispatches args with an isolated config directory.
func run(t *testing.T, factory cli.ServiceFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	t.Setenv("ANTO_BACKEND", "")
	t.Setenv("ANTO_DATA_FILE", "")
	t.Setenv("ANTO_MYSQL_DSN", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var outBuf, errBuf bytes.Buffer
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	code = dispatcher.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeStore()), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeStore()), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpDoesNotOpenStorage(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error) {
		t.Error("help must not open storage")
		return nil, errors.New("unexpected")
	}

	stdout, stderr, code := run(t, factory, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	stdout, _, code := run(t, nil, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "anto 0.1.0\n" {
		t.Errorf("expected 'anto 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, nil, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	_, stderr, code := run(t, nil, "help", "--config")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -config\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	store := testutil.NewFakeStore("buy milk", "walk dog")

	stdout, stderr, code := run(t, testFactory(store))

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	expected := "   1. [ ] buy milk\n   2. [ ] walk dog\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
	if !store.Closed() {
		t.Error("expected store to be closed after the command")
	}
}

func TestDispatcher_AliasAndQuiet(t *testing.T) {
	store := testutil.NewFakeStore("buy milk")

	stdout, stderr, code := run(t, testFactory(store), "mark", "--quiet", "1")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !store.Stored()[0].Done {
		t.Error("expected stored task to be done")
	}
}

func TestDispatcher_AuthError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error) {
		return nil, fmt.Errorf("%w: not logged in", service.ErrAuth)
	}

	_, stderr, code := run(t, factory, "list")

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(stderr, "error: auth error:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_LoadError(t *testing.T) {
	store := testutil.NewFakeStore()
	store.LoadErr = errors.New("corrupt")

	_, stderr, code := run(t, testFactory(store), "list")

	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	if stderr != "error: storage error: corrupt\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_BadConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(`backend = "tape"`), 0600); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := run(t, backend.Open, "list", "--config", dir)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(stderr, "error: config:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	store := testutil.NewFakeStore("buy milk")

	_, stderr, code := run(t, testFactory(store), "list", "--debug")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr, "session loaded") {
		t.Errorf("expected debug log on stderr, got %q", stderr)
	}
}

// TestDispatcher_FileBackendSession runs several sessions against the real
// file backend; each one reloads what the previous one stored.
func TestDispatcher_FileBackendSession(t *testing.T) {
	dir := t.TempDir()
	steps := []struct {
		args   []string
		stdout string
	}{
		{[]string{"add", "buy milk"}, "ok (1 tasks)\n"},
		{[]string{"todo", "walk", "dog"}, "ok (2 tasks)\n"},
		{[]string{"add", "buy eggs"}, "ok (3 tasks)\n"},
		{[]string{"done", "3"}, "ok\n"},
		{[]string{"rm", "1"}, "deleted: [ ] buy milk\n"},
		{[]string{"find", "buy"}, "   2. [X] buy eggs\n"},
		{[]string{"list"}, "   1. [ ] walk dog\n   2. [X] buy eggs\n"},
		{[]string{"unmark", "2"}, "ok\n"},
		{[]string{"list", "--open"}, "   1. [ ] walk dog\n   2. [ ] buy eggs\n"},
	}

	for _, step := range steps {
		args := append([]string{step.args[0], "--config", dir}, step.args[1:]...)
		stdout, stderr, code := run(t, backend.Open, args...)
		if code != exitcode.Success {
			t.Fatalf("%v: exit code %d, stderr %q", step.args, code, stderr)
		}
		if stdout != step.stdout {
			t.Errorf("%v: expected %q, got %q", step.args, step.stdout, stdout)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, config.DefaultDataFile)); err != nil {
		t.Errorf("expected task file in config dir: %v", err)
	}
}
