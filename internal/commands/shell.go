package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"tasktalk/internal/config"
	"tasktalk/internal/exitcode"
	"tasktalk/internal/service"
)

func init() {
	Register(&ShellCmd{})
}

// ShellCmd implements the interactive shell: one turn per input line.
type ShellCmd struct {
	in io.Reader
}

// SetInput sets the reader lines are read from (for testing).
func (c *ShellCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *ShellCmd) Name() string      { return "shell" }
func (c *ShellCmd) Aliases() []string { return []string{"chat"} }
func (c *ShellCmd) Synopsis() string  { return "Read commands interactively" }
func (c *ShellCmd) Usage() string     { return "tasktalk shell [common flags]" }
func (c *ShellCmd) NeedsStore() bool  { return true }
func (c *ShellCmd) NeedsAuth() bool   { return true }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, be *service.Backend, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected arguments: %s\n", strings.Join(args, " "))
		return exitcode.UserError
	}

	sess, code := requireLogin(cfg, errOut)
	if code != exitcode.Success {
		return code
	}

	in := c.in
	if in == nil {
		in = os.Stdin
	}

	runner := newRunner(be)
	scanner := bufio.NewScanner(in)
	if !cfg.Quiet {
		fmt.Fprintf(out, "Logged in as %s <%s>. Type 'exit' to quit.\n", sess.Identity.Name, sess.Identity.Email)
	}

	last := exitcode.Success
	for {
		if ctx.Err() != nil {
			fmt.Fprintln(errOut, "error: cancelled")
			return exitcode.UserError
		}
		if !cfg.Quiet {
			if caption := sess.Caption(); caption != "" {
				fmt.Fprintln(out, caption)
			}
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return last
		}

		if err := sess.Current(cfg.SessionPath()); err != nil {
			return reportSessionError(err, errOut)
		}
		last = execTurn(ctx, cfg, runner, sess, line, out, errOut)
		fmt.Fprintln(out)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: failed to read input: %v\n", err)
		return exitcode.UserError
	}
	return last
}
