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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tasktalk help [<command>]" }
func (c *HelpCmd) NeedsStore() bool  { return false }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, be *service.Backend, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(out, helpText)
		return exitcode.Success
	}
	if len(args) > 1 {
		fmt.Fprintln(errOut, "error: help takes at most one command")
		return exitcode.UserError
	}

	cmd, ok := DefaultRegistry.Find(args[0])
	if !ok {
		var names []string
		for _, c := range DefaultRegistry.All() {
			names = append(names, c.Name())
		}
		fmt.Fprintf(errOut, "error: unknown command: %s (available: %s)\n", args[0], strings.Join(names, ", "))
		return exitcode.UserError
	}

	fmt.Fprintf(out, "%s - %s\n", cmd.Name(), cmd.Synopsis())
	fmt.Fprintf(out, "Usage: %s\n", cmd.Usage())
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(out, "Aliases: %s\n", strings.Join(aliases, ", "))
	}
	return exitcode.Success
}

const helpText = `Usage:
  tasktalk                                        Start the interactive shell
  tasktalk ask [common flags] <command...>        Run one command, e.g. "show pending tasks"
  tasktalk shell [common flags]
  tasktalk quick [common flags] [<name>]          all, week, pending, done-last, example, delete-last
  tasktalk login [common flags] --name <name> --email <email>
  tasktalk logout [common flags] [--token]
  tasktalk whoami [common flags]
  tasktalk context [common flags] [--clear | --details]
  tasktalk schema [common flags]
  tasktalk seed [common flags]
  tasktalk auth [common flags]                    Authorize model access with Google
  tasktalk help [<command>]
  tasktalk version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Settings (config.yaml in the config directory, or TASKTALK_<KEY>):
  model, temperature, database, api_key (or GOOGLE_API_KEY), timeout
`
