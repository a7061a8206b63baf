package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasktalk/internal/config"
	"tasktalk/internal/exitcode"
	"tasktalk/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command: it sets the identity all
// statements are scoped to.
type LoginCmd struct {
	name  string
	email string
}

// SetIdentity sets the name and email flags (for testing).
func (c *LoginCmd) SetIdentity(name, email string) {
	c.name = name
	c.email = email
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Start a session for a user" }
func (c *LoginCmd) Usage() string {
	return "tasktalk login [common flags] --name <name> --email <email>"
}
func (c *LoginCmd) NeedsStore() bool { return false }
func (c *LoginCmd) NeedsAuth() bool  { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.email, "email", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, be *service.Backend, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	sess, code := loadSession(cfg, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := sess.Login(c.name, c.email); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if code := saveSession(cfg, sess, errOut); code != exitcode.Success {
		return code
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "logged in as %s <%s>\n", sess.Identity.Name, sess.Identity.Email)
	}
	return exitcode.Success
}
