// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"tasktalk/internal/service"
)

// DisplayColumns are shown, in this order, when a read returns them.
var DisplayColumns = []string{
	service.ColumnID,
	service.ColumnTaskName,
	service.ColumnStatus,
	service.ColumnCategory,
	"priority",
	service.ColumnDueDate,
	service.ColumnDueTime,
	service.ColumnCreatedAt,
}

// FormatStatement prints the generated statement indented under a header.
func FormatStatement(w io.Writer, stmt string) {
	fmt.Fprintln(w, "Generated statement:")
	for _, line := range strings.Split(strings.TrimSpace(stmt), "\n") {
		fmt.Fprintf(w, "    %s\n", strings.TrimRight(line, " \t\r"))
	}
}

// FormatRows prints rows as an aligned table. Known task columns are shown
// in display order; if none are present every column is shown.
func FormatRows(w io.Writer, rows service.Rows) {
	if rows.Len() == 0 {
		fmt.Fprintln(w, "No tasks found matching your criteria.")
		return
	}

	idx := displayIndexes(rows.Columns)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := make([]string, len(idx))
	for i, j := range idx {
		header[i] = rows.Columns[j]
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range rows.Values {
		cells := make([]string, len(idx))
		for i, j := range idx {
			if j < len(row) {
				cells[i] = normalizeCell(service.FormatValue(row[j]))
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

// FormatSuccess prints the outcome of a write.
// Format: "Command to '{ACTION}' task(s) processed. {N} row(s) affected."
// Creates report the new id instead of a count.
func FormatSuccess(w io.Writer, action string, created bool, affected int64) {
	if created {
		fmt.Fprintf(w, "Command to '%s' task(s) processed. New task id: %d\n", action, affected)
		return
	}
	fmt.Fprintf(w, "Command to '%s' task(s) processed. %d row(s) affected.\n", action, affected)
}

// FormatSummary prints the confirmation, marking a fallback summary.
func FormatSummary(w io.Writer, summary string, fallback bool) {
	if fallback {
		fmt.Fprintf(w, "Summary (model unavailable): %s\n", summary)
		return
	}
	fmt.Fprintf(w, "Summary: %s\n", summary)
}

// FormatTask prints one task's fields, one per line, skipping empty ones.
func FormatTask(w io.Writer, t service.Task) {
	fields := []struct{ label, value string }{
		{"id", fmt.Sprint(t.ID)},
		{"name", t.Name},
		{"status", t.Status},
		{"category", t.Category},
		{"due date", t.DueDate},
		{"due time", t.DueTime},
		{"created", t.CreatedAt},
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range fields {
		if f.value != "" {
			fmt.Fprintf(tw, "%s:\t%s\n", f.label, normalizeCell(f.value))
		}
	}
	tw.Flush()
}

func displayIndexes(columns []string) []int {
	pos := make(map[string]int, len(columns))
	for i, c := range columns {
		pos[strings.ToLower(c)] = i
	}
	var idx []int
	for _, c := range DisplayColumns {
		if i, ok := pos[c]; ok {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		for i := range columns {
			idx = append(idx, i)
		}
	}
	return idx
}

// normalizeCell keeps a value on one line.
func normalizeCell(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return s
}
