package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

type sampleTask struct {
	name     string
	status   string
	category string
	dueIn    int // days from today
}

var sampleTasks = []sampleTask{
	{"Prepare Quarterly Report", "pending", "Work", 3},
	{"Buy Groceries for the Week", "completed", "Personal", 1},
	{"Complete Python Course Assignment", "pending", "Study", 8},
	{"Read Chapter 5 of 'AI for Beginners'", "in-progress", "Study", 5},
	{"Call Mom", "pending", "Personal", 7},
	{"Finish Project Proposal Draft", "completed", "Work", 2},
	{"Plan Weekend Trip to Beach", "in-progress", "Personal", 13},
	{"Review Meeting Notes and Send Feedback", "pending", "Work", 18},
	{"Organize Digital Files on Laptop", "completed", "Personal", 4},
	{"Update Resume for New Job Opportunities", "in-progress", "Work", 23},
}

// Seed inserts the sample tasks for the owner in one transaction.
// Tasks already present (same name and due date) are skipped.
func (s *Store) Seed(ctx context.Context, name, email string) (int, error) {
	today := s.now()
	inserted := 0
	err := s.withDB(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		for _, st := range sampleTasks {
			due := today.AddDate(0, 0, st.dueIn).Format("2006-01-02")
			res, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO tasks (user_name, user_email, task_name, status, category, due_date)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				name, email, st.name, st.status, st.category, due)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, fmt.Errorf("seed tasks: %w", err)
	}
	return inserted, nil
}
