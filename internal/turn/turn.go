// Package turn runs one conversational turn: translate the utterance, guard
// and execute the statement, fold the outcome into the session context and
// phrase a confirmation.
package turn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"tasktalk/internal/executor"
	"tasktalk/internal/prompt"
	"tasktalk/internal/service"
	"tasktalk/internal/session"
)

var (
	// ErrNotLoggedIn is returned when the session has no identity.
	ErrNotLoggedIn = errors.New("not logged in (run: tasktalk login --name NAME --email EMAIL)")

	// ErrEmptyUtterance is returned for a blank command.
	ErrEmptyUtterance = errors.New("please enter a command")
)

// UnscopedStatementError is returned when a generated statement is not
// confined to the owner's rows.
type UnscopedStatementError struct {
	Statement string
	Email     string
}

func (e *UnscopedStatementError) Error() string {
	return fmt.Sprintf("generated statement is not scoped to %s; refusing to run it", e.Email)
}

// Result is everything a turn produced.
type Result struct {
	Statement string
	Outcome   executor.Outcome

	// Effect is the plain restatement of the outcome sent for summarizing.
	Effect string

	Summary string

	// SummaryFallback is set when the model could not phrase the summary
	// and Summary is the effect text instead.
	SummaryFallback bool

	// Context is the session context after the turn.
	Context *service.Task
}

// Runner executes turns against a store and an assistant.
type Runner struct {
	store     service.Store
	assistant service.Assistant
	now       func() time.Time
	logger    *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock overrides the time used to resolve relative dates.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithLogger sets the logger turns are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// NewRunner creates a Runner.
func NewRunner(store service.Store, assistant service.Assistant, opts ...Option) *Runner {
	r := &Runner{
		store:     store,
		assistant: assistant,
		now:       time.Now,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one turn for sess. On error the session is left as it was.
func (r *Runner) Run(ctx context.Context, sess *session.Session, utterance string) (*Result, error) {
	if sess == nil || !sess.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return nil, ErrEmptyUtterance
	}
	logger := r.logger.With("session", sess.ID)

	if err := r.ensureSchema(ctx, sess); err != nil {
		return nil, err
	}

	stmt, err := r.assistant.Translate(ctx, service.TranslateRequest{
		Utterance:  utterance,
		Schema:     sess.Schema,
		OwnerName:  sess.Identity.Name,
		OwnerEmail: sess.Identity.Email,
		Today:      prompt.FormatToday(r.now()),
		Context:    sess.ContextSnapshot(),
	})
	if err != nil {
		var te *prompt.TranslationError
		if !errors.As(err, &te) {
			err = &prompt.TranslationError{Utterance: utterance, Err: err}
		}
		return nil, err
	}
	logger.Debug("statement generated", "statement", stmt)

	if !ownerScoped(stmt, sess.Identity.Email) {
		return nil, &UnscopedStatementError{Statement: stmt, Email: sess.Identity.Email}
	}

	out, err := executor.Execute(ctx, r.store, stmt)
	if err != nil {
		logger.Debug("statement failed", "statement", stmt, "error", err)
		return nil, err
	}
	if out.Kind == executor.Read {
		logger.Debug("statement executed", "kind", out.Kind, "rows", out.Rows.Len())
	} else {
		logger.Debug("statement executed", "kind", out.Kind, "verb", out.Verb, "affected", out.Affected)
		sess.SchemaStale = true
	}

	refetch := r.refetcher(ctx, sess.Identity.Email)
	if err := sess.Track(out, refetch.get); err != nil {
		logger.Warn("failed to refresh conversation context", "error", err)
	}

	var created *service.Task
	if out.Created() {
		created = refetch.last
	}

	res := &Result{
		Statement: stmt,
		Outcome:   out,
		Effect:    Describe(out, created),
		Context:   sess.Context,
	}

	summary, err := r.assistant.Summarize(ctx, service.SummarizeRequest{
		Utterance: utterance,
		Statement: stmt,
		Effect:    res.Effect,
	})
	if err != nil {
		logger.Warn("summary unavailable", "error", err)
		res.Summary = res.Effect
		res.SummaryFallback = true
	} else {
		res.Summary = summary
	}
	return res, nil
}

// ensureSchema refreshes the cached schema text when it is missing or stale.
func (r *Runner) ensureSchema(ctx context.Context, sess *session.Session) error {
	if sess.Schema != "" && !sess.SchemaStale {
		return nil
	}
	schema, err := r.store.Schema(ctx)
	if err != nil {
		return &executor.StoreError{Err: fmt.Errorf("failed to load schema: %w", err)}
	}
	sess.Schema = schema
	sess.SchemaStale = false
	return nil
}

// refetcher reads tasks back by id for the owner and remembers the last one,
// so the effect of a create can name the task without a second read.
type refetcher struct {
	ctx   context.Context
	store service.Store
	email string
	last  *service.Task
}

func (r *Runner) refetcher(ctx context.Context, email string) *refetcher {
	return &refetcher{ctx: ctx, store: r.store, email: email}
}

func (f *refetcher) get(id int64) (*service.Task, error) {
	t, err := f.store.TaskByID(f.ctx, id, f.email)
	if err != nil {
		return nil, err
	}
	f.last = t
	return t, nil
}
