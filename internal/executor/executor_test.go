package executor_test

import (
	"context"
	"errors"
	"testing"

	"tasktalk/internal/executor"
	"tasktalk/internal/testutil"
)

const insertReport = `INSERT INTO tasks (user_name, user_email, task_name, category, due_date, due_time)
VALUES ('Ada', 'ada@example.com', 'Submit report', 'Work', '2025-01-11', '15:00')`

func TestClassify(t *testing.T) {
	tests := []struct {
		stmt string
		kind executor.Kind
		verb string
	}{
		{"SELECT id FROM tasks", executor.Read, "SELECT"},
		{"select id from tasks", executor.Read, "SELECT"},
		{"SeLeCt id FROM tasks", executor.Read, "SELECT"},
		{"   \n\tselect 1", executor.Read, "SELECT"},
		{"SELECT\nid FROM tasks", executor.Read, "SELECT"},
		{"SELECT(1)", executor.Read, "SELECT"},
		{"INSERT INTO tasks (task_name) VALUES ('x')", executor.Write, "INSERT"},
		{"  insert into tasks (task_name) values ('x')", executor.Write, "INSERT"},
		{"UPDATE tasks SET status = 'completed'", executor.Write, "UPDATE"},
		{"\tdelete FROM tasks WHERE id = 1", executor.Write, "DELETE"},
		{"WITH t AS (SELECT 1) SELECT * FROM t", executor.Write, "WITH"},
		{"SELECTED", executor.Write, "SELECTED"},
		{"", executor.Write, ""},
	}

	for _, tt := range tests {
		kind, verb := executor.Classify(tt.stmt)
		if kind != tt.kind || verb != tt.verb {
			t.Errorf("Classify(%q) = (%v, %q), want (%v, %q)", tt.stmt, kind, verb, tt.kind, tt.verb)
		}
	}
}

func TestExecute_InsertReturnsNewID(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	out, err := executor.Execute(ctx, store, insertReport)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !out.Created() {
		t.Errorf("expected a create outcome, got %+v", out)
	}
	if out.Affected != 1 {
		t.Errorf("expected new id 1, got %d", out.Affected)
	}

	task, err := store.TaskByID(ctx, out.Affected, "ada@example.com")
	if err != nil || task == nil {
		t.Fatalf("expected task by returned id, got %v, %v", task, err)
	}
	if task.UserEmail != "ada@example.com" {
		t.Errorf("expected owner ada@example.com, got %q", task.UserEmail)
	}
}

func TestExecute_ReadReturnsRows(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	if _, err := executor.Execute(ctx, store, insertReport); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	out, err := executor.Execute(ctx, store, "  select id, task_name FROM tasks WHERE user_email = 'ada@example.com'")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out.Kind != executor.Read {
		t.Fatalf("expected read outcome, got %v", out.Kind)
	}
	if out.Rows.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", out.Rows.Len())
	}
	if out.Rows.Columns[0] != "id" || out.Rows.Columns[1] != "task_name" {
		t.Errorf("unexpected columns %v", out.Rows.Columns)
	}
	if out.Rows.Task(0).Name != "Submit report" {
		t.Errorf("unexpected row %v", out.Rows.Values[0])
	}
}

func TestExecute_UpdateAndDeleteReturnCounts(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	if _, err := executor.Execute(ctx, store, insertReport); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	out, err := executor.Execute(ctx, store, "UPDATE tasks SET status = 'completed' WHERE id = 1 AND user_email = 'ada@example.com'")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if out.Verb != executor.VerbUpdate || out.Affected != 1 {
		t.Errorf("expected UPDATE affecting 1, got %+v", out)
	}

	out, err = executor.Execute(ctx, store, "DELETE FROM tasks WHERE id = 99 AND user_email = 'ada@example.com'")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if out.Verb != executor.VerbDelete || out.Affected != 0 {
		t.Errorf("expected DELETE affecting 0, got %+v", out)
	}
}

func TestExecute_DuplicateTask(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	if _, err := executor.Execute(ctx, store, insertReport); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	_, err := executor.Execute(ctx, store, insertReport)
	var dup *executor.DuplicateTaskError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateTaskError, got %v", err)
	}
	if dup.Statement != insertReport {
		t.Errorf("expected offending statement, got %q", dup.Statement)
	}
	if dup.Conflict == "" {
		t.Error("expected conflict description")
	}
	var storeErr *executor.StoreError
	if errors.As(err, &storeErr) {
		t.Error("duplicate must not be reported as a generic store error")
	}

	n, err := store.Count(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected row count 1, got %d", n)
	}
}

func TestExecute_StoreError(t *testing.T) {
	store := testutil.NewStore(t)
	stmt := "SELECT nope FROM missing_table"

	_, err := executor.Execute(context.Background(), store, stmt)
	var storeErr *executor.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if storeErr.Statement != stmt {
		t.Errorf("expected failing statement, got %q", storeErr.Statement)
	}
}

func TestExecute_RejectsMultipleStatements(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	stmt := insertReport + "; DELETE FROM tasks"

	_, err := executor.Execute(ctx, store, stmt)
	if !errors.Is(err, executor.ErrMultipleStatements) {
		t.Fatalf("expected ErrMultipleStatements, got %v", err)
	}

	n, _ := store.Count(ctx, "ada@example.com")
	if n != 0 {
		t.Errorf("expected nothing executed, got %d rows", n)
	}
}

func TestExecute_RejectsTrailingComment(t *testing.T) {
	store := testutil.NewStore(t)

	_, err := executor.Execute(context.Background(), store, "SELECT 1; -- done")
	if !errors.Is(err, executor.ErrMultipleStatements) {
		t.Errorf("expected ErrMultipleStatements, got %v", err)
	}
}

func TestExecute_AllowsTrailingSemicolonAndQuotedSemicolon(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	stmt := "INSERT INTO tasks (user_email, task_name) VALUES ('ada@example.com', 'Buy milk; eggs');  "
	out, err := executor.Execute(ctx, store, stmt)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !out.Created() || out.Affected != 1 {
		t.Errorf("expected create outcome with id 1, got %+v", out)
	}
}
