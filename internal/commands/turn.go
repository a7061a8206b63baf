package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tasktalk/internal/config"
	"tasktalk/internal/executor"
	"tasktalk/internal/exitcode"
	"tasktalk/internal/output"
	"tasktalk/internal/prompt"
	"tasktalk/internal/service"
	"tasktalk/internal/session"
	"tasktalk/internal/turn"
)

// loadSession reads the session, reporting failures to errOut.
func loadSession(cfg *config.Config, errOut io.Writer) (*session.Session, int) {
	sess, err := session.Load(cfg.SessionPath())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.UserError
	}
	return sess, exitcode.Success
}

// saveSession writes the session, reporting failures to errOut.
func saveSession(cfg *config.Config, sess *session.Session, errOut io.Writer) int {
	if err := sess.Save(cfg.SessionPath()); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// requireLogin loads the session and fails unless someone is logged in.
func requireLogin(cfg *config.Config, errOut io.Writer) (*session.Session, int) {
	sess, code := loadSession(cfg, errOut)
	if code != exitcode.Success {
		return nil, code
	}
	if !sess.LoggedIn() {
		fmt.Fprintf(errOut, "error: %v\n", turn.ErrNotLoggedIn)
		return nil, exitcode.AuthError
	}
	return sess, exitcode.Success
}

func newRunner(be *service.Backend) *turn.Runner {
	var opts []turn.Option
	if be.Logger != nil {
		opts = append(opts, turn.WithLogger(be.Logger))
	}
	return turn.NewRunner(be.Store, be.Assistant, opts...)
}

// execTurn runs one utterance and prints its result. The session is saved
// whether or not the turn succeeds, so a refreshed schema is kept, unless
// another login or logout replaced it meanwhile.
func execTurn(ctx context.Context, cfg *config.Config, runner *turn.Runner, sess *session.Session, utterance string, out, errOut io.Writer) int {
	res, err := runner.Run(ctx, sess, utterance)
	saveErr := sess.SaveCurrent(cfg.SessionPath())
	if err != nil {
		code := reportTurnError(err, errOut)
		if saveErr != nil {
			reportSessionError(saveErr, errOut)
		}
		return code
	}
	printResult(cfg, res, out)
	if saveErr != nil {
		return reportSessionError(saveErr, errOut)
	}
	return exitcode.Success
}

// reportSessionError prints a session load or save failure.
func reportSessionError(err error, errOut io.Writer) int {
	if errors.Is(err, session.ErrSessionChanged) {
		fmt.Fprintf(errOut, "error: %v; run the command again\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}

func printResult(cfg *config.Config, res *turn.Result, out io.Writer) {
	if !cfg.Quiet {
		output.FormatStatement(out, res.Statement)
		fmt.Fprintln(out)
	}

	if res.Outcome.Kind == executor.Read {
		output.FormatRows(out, res.Outcome.Rows)
	} else {
		output.FormatSuccess(out, turn.Action(res.Outcome), res.Outcome.Created(), res.Outcome.Affected)
	}

	output.FormatSummary(out, res.Summary, res.SummaryFallback)
}

// reportTurnError prints err and maps it to an exit code.
func reportTurnError(err error, errOut io.Writer) int {
	var (
		dup      *executor.DuplicateTaskError
		storeErr *executor.StoreError
		te       *prompt.TranslationError
		unscoped *turn.UnscopedStatementError
	)

	switch {
	case errors.Is(err, turn.ErrNotLoggedIn):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, turn.ErrEmptyUtterance):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.As(err, &dup):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.As(err, &te):
		fmt.Fprintf(errOut, "error: %v\n", err)
		fmt.Fprintln(errOut, "Please try rephrasing your command.")
		return exitcode.ModelError
	case errors.As(err, &unscoped):
		fmt.Fprintf(errOut, "error: %v\n", err)
		fmt.Fprintf(errOut, "Rejected statement: %s\n", unscoped.Statement)
		return exitcode.ModelError
	case errors.Is(err, executor.ErrMultipleStatements):
		fmt.Fprintf(errOut, "error: generated %v; refusing to run it\n", err)
		return exitcode.ModelError
	case errors.As(err, &storeErr):
		fmt.Fprintf(errOut, "error: %v\n", err)
		if storeErr.Statement != "" {
			fmt.Fprintf(errOut, "Failed statement: %s\n", storeErr.Statement)
		}
		return exitcode.BackendError
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.BackendError
}
