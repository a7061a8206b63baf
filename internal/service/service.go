package service

import (
	"context"
	"errors"
	"log/slog"
)

// ErrUniqueViolation is wrapped by stores when a write breaks the
// (user_email, task_name, due_date, due_time) uniqueness rule.
var ErrUniqueViolation = errors.New("unique constraint violated")

// Store defines the task persistence operations.
// Every call acquires and releases its own connection.
type Store interface {
	// Init creates the tasks table and its unique index if absent.
	Init(ctx context.Context) error

	// Schema returns the CREATE statements of the tasks table and its
	// indexes, for the translation prompt.
	Schema(ctx context.Context) (string, error)

	// Query runs a read statement and returns all rows in store order.
	Query(ctx context.Context, stmt string) (Rows, error)

	// Exec runs a write statement and commits it.
	// Unique violations are returned wrapping ErrUniqueViolation.
	Exec(ctx context.Context, stmt string) (ExecResult, error)

	// TaskByID returns the owner's task with the given id, or nil if none.
	TaskByID(ctx context.Context, id int64, email string) (*Task, error)

	// Count returns the number of tasks stored for the owner.
	Count(ctx context.Context, email string) (int, error)

	// Seed inserts the sample tasks for the owner, skipping ones that exist.
	// Returns the number of tasks inserted.
	Seed(ctx context.Context, name, email string) (int, error)
}

// Generator is the opaque language model: text in, text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Assistant turns utterances into statements and effects into confirmations.
type Assistant interface {
	// Translate returns exactly one normalized statement.
	Translate(ctx context.Context, req TranslateRequest) (string, error)

	// Summarize returns a human-readable confirmation.
	Summarize(ctx context.Context, req SummarizeRequest) (string, error)
}

// Backend bundles what a command runs against. Assistant is nil for
// commands that never call the model.
type Backend struct {
	Store     Store
	Assistant Assistant
	Logger    *slog.Logger
}
