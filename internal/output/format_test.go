package output_test

import (
	"bytes"
	"testing"

	"tasktalk/internal/output"
	"tasktalk/internal/service"
)

func TestFormatStatement(t *testing.T) {
	var buf bytes.Buffer
	output.FormatStatement(&buf, "SELECT id\nFROM tasks  \n")

	want := "Generated statement:\n    SELECT id\n    FROM tasks\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatRows(t *testing.T) {
	rows := service.Rows{
		Columns: []string{"created_at", "task_name", "id", "user_email"},
		Values: [][]any{
			{"2025-01-10 09:00:00", "Submit report", int64(1), "ada@example.com"},
			{"2025-01-10 09:05:00", "Call\nmom", int64(12), "ada@example.com"},
		},
	}

	var buf bytes.Buffer
	output.FormatRows(&buf, rows)

	want := "id  task_name      created_at\n" +
		"1   Submit report  2025-01-10 09:00:00\n" +
		"12  Call mom       2025-01-10 09:05:00\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatRows_UnknownColumns(t *testing.T) {
	rows := service.Rows{Columns: []string{"COUNT(*)"}, Values: [][]any{{int64(3)}}}

	var buf bytes.Buffer
	output.FormatRows(&buf, rows)

	if buf.String() != "COUNT(*)\n3\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestFormatRows_Empty(t *testing.T) {
	var buf bytes.Buffer
	output.FormatRows(&buf, service.Rows{Columns: []string{"id"}})

	if buf.String() != "No tasks found matching your criteria.\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestFormatSuccess(t *testing.T) {
	var buf bytes.Buffer
	output.FormatSuccess(&buf, "added", true, 7)
	output.FormatSuccess(&buf, "deleted", false, 2)

	want := "Command to 'added' task(s) processed. New task id: 7\n" +
		"Command to 'deleted' task(s) processed. 2 row(s) affected.\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatSummary(t *testing.T) {
	var buf bytes.Buffer
	output.FormatSummary(&buf, "Done!", false)
	output.FormatSummary(&buf, "Task(s) were updated. 1 row(s) affected.", true)

	want := "Summary: Done!\nSummary (model unavailable): Task(s) were updated. 1 row(s) affected.\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestFormatTask(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTask(&buf, service.Task{ID: 3, Name: "Pay rent", Status: "pending", DueDate: "2025-01-15"})

	want := "id:        3\nname:      Pay rent\nstatus:    pending\ndue date:  2025-01-15\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
