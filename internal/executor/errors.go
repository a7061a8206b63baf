package executor

import (
	"errors"
	"fmt"
)

// ErrMultipleStatements is returned for input holding more than one statement.
var ErrMultipleStatements = errors.New("more than one statement")

// DuplicateTaskError reports a write rejected by the
// (user_email, task_name, due_date, due_time) uniqueness rule.
type DuplicateTaskError struct {
	Statement string
	Conflict  string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("task already exists with the same name, due date and time (%s)", e.Conflict)
}

// StoreError reports any other failure of the task store.
type StoreError struct {
	Statement string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %v", e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
