package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"golang.org/x/oauth2"

	"taskdesk/internal/backend/googletasks"
	"taskdesk/internal/config"
	"taskdesk/internal/exitcode"
	"taskdesk/internal/service"
)

const (
	// First port tried for the OAuth redirect, and how many after it.
	callbackStartPort = 8085
	callbackAttempts  = 5

	tokenCheckTimeout = 10 * time.Second
)

const oauthClientHelp = `To use Google Tasks you need OAuth client credentials:

1. Open https://console.cloud.google.com/apis/credentials and pick a project
2. Enable the Google Tasks API:
   https://console.cloud.google.com/apis/library/tasks.googleapis.com
3. Create Credentials > OAuth client ID, application type "Desktop app"
4. Download the JSON and save it as:
   %s

Then run 'taskdesk login' again.
`

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	// StartPort overrides the first callback port. Zero means callbackStartPort.
	StartPort int
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Authenticate with Google Tasks" }
func (c *LoginCmd) Usage() string      { return "taskdesk login [common flags]" }
func (c *LoginCmd) NeedsBackend() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !cfg.HasOAuthClient() {
		fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n\n", cfg.Dir)
		fmt.Fprintf(errOut, oauthClientHelp, cfg.OAuthClientPath())
		return exitcode.AuthError
	}

	oauthConfig, err := googletasks.LoadClientConfig(cfg.OAuthClientPath())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if cfg.HasToken() {
		err := checkStoredToken(ctx, cfg, oauthConfig)
		if err == nil {
			if !cfg.Quiet {
				fmt.Fprintln(out, "already logged in")
			}
			return exitcode.Success
		}
		logger(cfg).Debug("stored token unusable", "error", err)
	}

	start := c.StartPort
	if start == 0 {
		start = callbackStartPort
	}
	listener, err := googletasks.ListenCallback(start, callbackAttempts)
	if err != nil {
		fmt.Fprintf(errOut, "error: could not bind to local port for OAuth callback: %v\n", err)
		return exitcode.AuthError
	}

	auth := &googletasks.Authorizer{
		Config:   oauthConfig,
		Listener: listener,
		Prompt: func(authURL string) {
			fmt.Fprintln(errOut, "Open this URL in your browser:")
			fmt.Fprintln(errOut, authURL)
		},
	}
	token, err := auth.Authorize(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := googletasks.SaveToken(cfg.TokenPath(), token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	logger(cfg).Debug("token saved", "path", cfg.TokenPath())
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
		if cfg.Settings.Backend != config.BackendGoogle {
			fmt.Fprintf(out, "set backend: google in %s to use Google Tasks\n", cfg.SettingsPath())
		}
	}
	return exitcode.Success
}

func checkStoredToken(ctx context.Context, cfg *config.Config, oauthConfig *oauth2.Config) error {
	token, err := googletasks.LoadToken(cfg.TokenPath())
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, tokenCheckTimeout)
	defer cancel()
	return googletasks.CheckToken(ctx, oauthConfig, token)
}
