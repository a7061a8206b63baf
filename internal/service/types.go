// Package service defines the backend-agnostic interfaces for the task store
// and the language model.
package service

import (
	"fmt"
	"strconv"
	"strings"
)

// Task columns as they appear in the tasks table.
const (
	ColumnID        = "id"
	ColumnUserName  = "user_name"
	ColumnUserEmail = "user_email"
	ColumnTaskName  = "task_name"
	ColumnStatus    = "status"
	ColumnCategory  = "category"
	ColumnCreatedAt = "created_at"
	ColumnDueDate   = "due_date"
	ColumnDueTime   = "due_time"
)

// Task represents a single row of the tasks table.
// Empty strings stand for NULL columns.
type Task struct {
	ID        int64
	UserName  string
	UserEmail string
	Name      string
	Status    string // "pending", "completed", "cancelled", "in progress", ...
	Category  string
	CreatedAt string // "YYYY-MM-DD HH:MM:SS", local time
	DueDate   string // "YYYY-MM-DD"
	DueTime   string // "HH:MM"
}

// Rows is the result of a read statement, in store order.
type Rows struct {
	Columns []string
	Values  [][]any
}

// Len returns the number of rows.
func (r Rows) Len() int {
	return len(r.Values)
}

// Task maps row i onto a Task. Columns the statement did not select stay
// empty.
func (r Rows) Task(i int) Task {
	var t Task
	for j, col := range r.Columns {
		if j >= len(r.Values[i]) {
			break
		}
		v := r.Values[i][j]
		switch strings.ToLower(col) {
		case ColumnID:
			t.ID = toInt64(v)
		case ColumnUserName:
			t.UserName = FormatValue(v)
		case ColumnUserEmail:
			t.UserEmail = FormatValue(v)
		case ColumnTaskName:
			t.Name = FormatValue(v)
		case ColumnStatus:
			t.Status = FormatValue(v)
		case ColumnCategory:
			t.Category = FormatValue(v)
		case ColumnCreatedAt:
			t.CreatedAt = FormatValue(v)
		case ColumnDueDate:
			t.DueDate = FormatValue(v)
		case ColumnDueTime:
			t.DueTime = FormatValue(v)
		}
	}
	return t
}

// ExecResult is the raw effect of a write statement.
type ExecResult struct {
	LastInsertID int64
	RowsAffected int64
}

// TranslateRequest carries everything the model needs to produce a statement.
type TranslateRequest struct {
	Utterance  string
	Schema     string
	OwnerName  string
	OwnerEmail string
	Today      string // human-readable, e.g. "Friday, 10 January 2025 (2025-01-10)"
	Context    string // rendered conversation context or "None"
}

// SummarizeRequest carries the executed turn for the confirmation message.
type SummarizeRequest struct {
	Utterance string
	Statement string
	Effect    string
}

// FormatValue renders a column value for display. NULL becomes "".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(x)
	case []byte:
		n, _ := strconv.ParseInt(string(x), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(x, 10, 64)
		return n
	}
	return 0
}
