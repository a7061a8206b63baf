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
	Register(&SchemaCmd{})
	Register(&SeedCmd{})
}

// SchemaCmd implements the schema command.
type SchemaCmd struct{}

func (c *SchemaCmd) Name() string      { return "schema" }
func (c *SchemaCmd) Aliases() []string { return nil }
func (c *SchemaCmd) Synopsis() string  { return "Print the task store schema" }
func (c *SchemaCmd) Usage() string     { return "tasktalk schema [common flags]" }
func (c *SchemaCmd) NeedsStore() bool  { return true }
func (c *SchemaCmd) NeedsAuth() bool   { return false }

func (c *SchemaCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SchemaCmd) Run(ctx context.Context, cfg *config.Config, be *service.Backend, args []string, out, errOut io.Writer) int {
	schema, err := be.Store.Schema(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.BackendError
	}
	fmt.Fprintln(out, schema)
	return exitcode.Success
}

// SeedCmd implements the seed command: it inserts sample tasks for the
// logged-in user.
type SeedCmd struct{}

func (c *SeedCmd) Name() string      { return "seed" }
func (c *SeedCmd) Aliases() []string { return nil }
func (c *SeedCmd) Synopsis() string  { return "Insert sample tasks" }
func (c *SeedCmd) Usage() string     { return "tasktalk seed [common flags]" }
func (c *SeedCmd) NeedsStore() bool  { return true }
func (c *SeedCmd) NeedsAuth() bool   { return false }

func (c *SeedCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SeedCmd) Run(ctx context.Context, cfg *config.Config, be *service.Backend, args []string, out, errOut io.Writer) int {
	sess, code := requireLogin(cfg, errOut)
	if code != exitcode.Success {
		return code
	}

	n, err := be.Store.Seed(ctx, sess.Identity.Name, sess.Identity.Email)
	if err != nil {
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.BackendError
	}

	if n > 0 {
		sess.SchemaStale = true
		if code := saveSession(cfg, sess, errOut); code != exitcode.Success {
			return code
		}
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "inserted %d sample task(s)\n", n)
	}
	return exitcode.Success
}
