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

// QuickCommand is a preset utterance runnable by name.
type QuickCommand struct {
	Name      string
	Label     string
	Utterance string
}

// QuickCommands are the presets offered by the quick command, in display order.
var QuickCommands = []QuickCommand{
	{"all", "View all tasks", "Show all my tasks"},
	{"week", "View this week", "Show tasks for this week"},
	{"pending", "View pending", "Show pending tasks"},
	{"done-last", "Mark last as done", "Mark the last task as completed"},
	{"example", "Add example task", "I have to attend a 'Project meeting' tomorrow at 10:00 AM."},
	{"delete-last", "Delete last task", "Delete the last task"},
}

func init() {
	Register(&QuickCmd{})
}

// QuickCmd implements the quick command.
type QuickCmd struct{}

func (c *QuickCmd) Name() string      { return "quick" }
func (c *QuickCmd) Aliases() []string { return nil }
func (c *QuickCmd) Synopsis() string  { return "Run a preset command" }
func (c *QuickCmd) Usage() string     { return "tasktalk quick [common flags] [<name>]" }
func (c *QuickCmd) NeedsStore() bool  { return true }
func (c *QuickCmd) NeedsAuth() bool   { return true }

func (c *QuickCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *QuickCmd) Run(ctx context.Context, cfg *config.Config, be *service.Backend, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		for _, q := range QuickCommands {
			fmt.Fprintf(out, "%-12s %s: %q\n", q.Name, q.Label, q.Utterance)
		}
		return exitcode.Success
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: too many arguments: %s\n", strings.Join(args[1:], " "))
		return exitcode.UserError
	}

	q, ok := findQuick(args[0])
	if !ok {
		fmt.Fprintf(errOut, "error: unknown quick command: %s\n", args[0])
		return exitcode.UserError
	}

	sess, code := requireLogin(cfg, errOut)
	if code != exitcode.Success {
		return code
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "> %s\n", q.Utterance)
	}
	return execTurn(ctx, cfg, newRunner(be), sess, q.Utterance, out, errOut)
}

func findQuick(name string) (QuickCommand, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, q := range QuickCommands {
		if q.Name == name {
			return q, true
		}
	}
	return QuickCommand{}, false
}
