// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, invalid login, empty
	// command, duplicate task).
	UserError = 1

	// AuthError indicates an auth/config error (no session, no model
	// credentials).
	AuthError = 2

	// BackendError indicates a task store error.
	BackendError = 3

	// ModelError indicates the language model could not produce a statement.
	ModelError = 4
)
