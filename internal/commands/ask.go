package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasktalk/internal/config"
	"tasktalk/internal/exitcode"
	"tasktalk/internal/service"
)

func init() {
	Register(&AskCmd{})
}

// AskCmd implements the ask command: one conversational turn.
type AskCmd struct{}

func (c *AskCmd) Name() string      { return "ask" }
func (c *AskCmd) Aliases() []string { return []string{"do"} }
func (c *AskCmd) Synopsis() string  { return "Run one task command written in plain language" }
func (c *AskCmd) Usage() string     { return "tasktalk ask [common flags] <command...>" }
func (c *AskCmd) NeedsStore() bool  { return true }
func (c *AskCmd) NeedsAuth() bool   { return true }

func (c *AskCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AskCmd) Run(ctx context.Context, cfg *config.Config, be *service.Backend, args []string, out, errOut io.Writer) int {
	utterance := strings.TrimSpace(strings.Join(args, " "))
	if utterance == "" {
		fmt.Fprintln(errOut, "error: command required")
		return exitcode.UserError
	}

	sess, code := requireLogin(cfg, errOut)
	if code != exitcode.Success {
		return code
	}

	return execTurn(ctx, cfg, newRunner(be), sess, utterance, out, errOut)
}
