package session

import (
	"tasktalk/internal/executor"
	"tasktalk/internal/service"
)

// RefetchFunc loads the owner's task by id; nil when it no longer exists.
type RefetchFunc func(id int64) (*service.Task, error)

// Track returns the context following a successful statement:
//   - a read of exactly one row with an id focuses that row; any other
//     read clears it
//   - a create focuses the new task
//   - an update that touched rows refreshes the current task
//   - a delete that touched rows clears it
//
// Anything else leaves current unchanged.
func Track(current *service.Task, out executor.Outcome, refetch RefetchFunc) (*service.Task, error) {
	if out.Kind == executor.Read {
		if out.Rows.Len() != 1 {
			return nil, nil
		}
		t := out.Rows.Task(0)
		if t.ID == 0 {
			return nil, nil
		}
		return &t, nil
	}

	switch out.Verb {
	case executor.VerbInsert:
		return refetch(out.Affected)
	case executor.VerbUpdate:
		if out.Affected > 0 && current != nil && current.ID != 0 {
			return refetch(current.ID)
		}
	case executor.VerbDelete:
		if out.Affected > 0 {
			return nil, nil
		}
	}
	return current, nil
}

// Track applies the outcome to the session's context.
func (s *Session) Track(out executor.Outcome, refetch RefetchFunc) error {
	next, err := Track(s.Context, out, refetch)
	if err != nil {
		return err
	}
	s.Context = next
	return nil
}
