package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"tasktalk/internal/backend/gemini"
	"tasktalk/internal/config"
	"tasktalk/internal/exitcode"
	"tasktalk/internal/service"
)

const authWait = 5 * time.Minute

func init() {
	Register(&AuthCmd{})
}

// AuthCmd implements the auth command. Model calls use an API key when one
// is configured; otherwise this obtains an OAuth token through the browser.
type AuthCmd struct{}

func (c *AuthCmd) Name() string      { return "auth" }
func (c *AuthCmd) Aliases() []string { return nil }
func (c *AuthCmd) Synopsis() string  { return "Authorize model access with Google" }
func (c *AuthCmd) Usage() string     { return "tasktalk auth [common flags]" }
func (c *AuthCmd) NeedsStore() bool  { return false }
func (c *AuthCmd) NeedsAuth() bool   { return false }

func (c *AuthCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AuthCmd) Run(ctx context.Context, cfg *config.Config, be *service.Backend, args []string, out, errOut io.Writer) int {
	if cfg.Settings.APIKey != "" {
		if !cfg.Quiet {
			fmt.Fprintln(out, "api key configured; OAuth not needed")
		}
		return exitcode.Success
	}

	oauthConfig, err := gemini.OAuthConfig(cfg)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(errOut, "error: %s not found in %s\n", config.OAuthClientFile, cfg.Dir)
		fmt.Fprint(errOut, credentialsHelp(cfg.Dir))
		return exitcode.AuthError
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}

	if err := gemini.CheckToken(ctx, cfg); err == nil {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already authorized")
		}
		return exitcode.Success
	} else if cfg.HasToken() && be.Logger != nil {
		be.Logger.Debug("stored token unusable", "error", err)
	}

	flow := &gemini.Authorizer{
		Config: oauthConfig,
		Wait:   authWait,
		Prompt: func(authURL string) {
			fmt.Fprintln(errOut, "Open this URL in your browser:")
			fmt.Fprintln(errOut, authURL)
		},
	}
	token, err := flow.Authorize(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}

	if err := gemini.SaveToken(cfg, token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %s\n", err)
		return exitcode.AuthError
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func credentialsHelp(dir string) string {
	return fmt.Sprintf(`
tasktalk needs credentials for the Generative Language API. Either:

  - set GOOGLE_API_KEY (or api_key in %[1]s/config.yaml); no auth step is needed, or
  - create a "Desktop app" OAuth client at https://console.cloud.google.com/apis/credentials
    with the Generative Language API enabled, save its JSON as %[1]s/oauth_client.json
    and run 'tasktalk auth' again.
`, dir)
}
