package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"anto/internal/backend/googletasks"
	"anto/internal/config"
	"anto/internal/exitcode"
	"anto/internal/tasklist"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct{}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authorize the Google Tasks backend" }
func (c *LoginCmd) Usage() string     { return "anto login [common flags]" }
func (c *LoginCmd) NeedsTasks() bool  { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, tasks *tasklist.TaskList, args []string, out, errOut io.Writer) int {
	if !cfg.HasOAuthClient() {
		fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n\n", cfg.Dir)
		fmt.Fprint(errOut, oauthSetupText)
		fmt.Fprintf(errOut, "   %s\n\nThen run 'anto login' again.\n", cfg.OAuthClientPath())
		return exitcode.ConfigError
	}

	if cfg.HasToken() && googletasks.TokenValid(ctx, cfg) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	if err := googletasks.Login(ctx, cfg, errOut); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

const oauthSetupText = `The Google Tasks backend needs OAuth desktop credentials:

1. Go to https://console.cloud.google.com/apis/credentials
2. Enable the Google Tasks API:
   https://console.cloud.google.com/apis/library/tasks.googleapis.com
3. Create an OAuth client ID of type 'Desktop app' and download the JSON
4. Save it as:
`
