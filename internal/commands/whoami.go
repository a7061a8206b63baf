package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasktalk/internal/config"
	"tasktalk/internal/exitcode"
	"tasktalk/internal/output"
	"tasktalk/internal/service"
)

func init() {
	Register(&WhoamiCmd{})
	Register(&ContextCmd{})
}

// WhoamiCmd implements the whoami command.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Print the logged-in user" }
func (c *WhoamiCmd) Usage() string     { return "tasktalk whoami [common flags]" }
func (c *WhoamiCmd) NeedsStore() bool  { return false }
func (c *WhoamiCmd) NeedsAuth() bool   { return false }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, cfg *config.Config, be *service.Backend, args []string, out, errOut io.Writer) int {
	sess, code := requireLogin(cfg, errOut)
	if code != exitcode.Success {
		return code
	}
	fmt.Fprintf(out, "%s <%s>\n", sess.Identity.Name, sess.Identity.Email)
	return exitcode.Success
}

// ContextCmd implements the context command: it shows the task that
// implicit references ("it", "the last one") resolve to.
type ContextCmd struct {
	clear   bool
	details bool
}

// SetClear sets the --clear flag (for testing).
func (c *ContextCmd) SetClear(v bool) {
	c.clear = v
}

// SetDetails sets the --details flag (for testing).
func (c *ContextCmd) SetDetails(v bool) {
	c.details = v
}

func (c *ContextCmd) Name() string      { return "context" }
func (c *ContextCmd) Aliases() []string { return []string{"ctx"} }
func (c *ContextCmd) Synopsis() string  { return "Show or clear the conversation context" }
func (c *ContextCmd) Usage() string     { return "tasktalk context [common flags] [--clear | --details]" }
func (c *ContextCmd) NeedsStore() bool  { return false }
func (c *ContextCmd) NeedsAuth() bool   { return false }

func (c *ContextCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.clear, "clear", false, "")
	fs.BoolVar(&c.details, "details", false, "")
}

func (c *ContextCmd) Run(ctx context.Context, cfg *config.Config, be *service.Backend, args []string, out, errOut io.Writer) int {
	sess, code := requireLogin(cfg, errOut)
	if code != exitcode.Success {
		return code
	}

	if c.clear && c.details {
		fmt.Fprintln(errOut, "error: --clear and --details cannot be combined")
		return exitcode.UserError
	}

	if c.clear {
		sess.Context = nil
		if code := saveSession(cfg, sess, errOut); code != exitcode.Success {
			return code
		}
		if !cfg.Quiet {
			fmt.Fprintln(out, "ok")
		}
		return exitcode.Success
	}

	if sess.Context == nil {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no context")
		}
		return exitcode.Success
	}
	fmt.Fprintln(out, sess.Caption())
	if c.details {
		output.FormatTask(out, *sess.Context)
	}
	if cfg.Debug {
		fmt.Fprintln(out, sess.ContextSnapshot())
	}
	return exitcode.Success
}
