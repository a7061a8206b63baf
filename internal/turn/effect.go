package turn

import (
	"fmt"

	"tasktalk/internal/executor"
	"tasktalk/internal/service"
)

// Action is the past-tense verb a write outcome is reported with.
func Action(out executor.Outcome) string {
	switch out.Verb {
	case executor.VerbInsert:
		return "added"
	case executor.VerbUpdate:
		return "updated"
	case executor.VerbDelete:
		return "deleted"
	}
	return "processed"
}

// Describe renders the effect of an outcome for the summary prompt.
// created is the task re-read after an INSERT, nil if it could not be found.
func Describe(out executor.Outcome, created *service.Task) string {
	if out.Kind == executor.Read {
		if out.Rows.Len() == 0 {
			return "Query executed. No tasks found."
		}
		return fmt.Sprintf("Query executed. Retrieved %d task(s).", out.Rows.Len())
	}

	switch out.Verb {
	case executor.VerbInsert:
		if created != nil {
			return fmt.Sprintf("Task '%s' (ID: %d) was successfully added.", created.Name, created.ID)
		}
		return fmt.Sprintf("Task was added (ID: %d), but details couldn't be retrieved post-insertion.", out.Affected)
	case executor.VerbUpdate, executor.VerbDelete:
		return fmt.Sprintf("Task(s) were %s. %d row(s) affected.", Action(out), out.Affected)
	}
	return fmt.Sprintf("Statement processed. %d row(s) affected.", out.Affected)
}
