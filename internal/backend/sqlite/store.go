// Package sqlite implements service.Store on a single SQLite tasks table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"tasktalk/internal/service"
)

const (
	// TableName is the only table the store manages.
	TableName = "tasks"

	// UniqueIndexName guards (user_email, task_name, due_date, due_time).
	UniqueIndexName = "idx_unq_user_task"

	// BusyTimeout is how long a statement waits on a locked database.
	BusyTimeout = 5 * time.Second

	driverName = "sqlite3"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_name TEXT,
	user_email TEXT,
	task_name TEXT NOT NULL,
	status TEXT DEFAULT 'pending',
	category TEXT,
	created_at TEXT DEFAULT (strftime('%Y-%m-%d %H:%M:%S', 'now', 'localtime')),
	due_date TEXT,
	due_time TEXT
)`

// NULL and '' are the same value in the uniqueness key.
const createIndexSQL = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_unq_user_task
ON tasks (user_email, task_name, COALESCE(due_date, ''), COALESCE(due_time, ''))`

const taskColumns = "id, user_name, user_email, task_name, status, category, created_at, due_date, due_time"

// Store implements service.Store. It holds no connection between calls.
type Store struct {
	path string
	now  func() time.Time
}

// New returns a store for the database file at path. The parent directory
// is created if needed; the schema is created by Init.
func New(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return &Store{path: path, now: time.Now}, nil
}

// withDB opens a connection, runs fn and closes the connection.
func (s *Store) withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d", s.path, BusyTimeout.Milliseconds())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	return fn(db)
}

// Init creates the tasks table and unique index if absent.
func (s *Store) Init(ctx context.Context) error {
	return s.withDB(ctx, func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
			return fmt.Errorf("create tasks table: %w", err)
		}
		if _, err := db.ExecContext(ctx, createIndexSQL); err != nil {
			return fmt.Errorf("create unique index: %w", err)
		}
		return nil
	})
}

// Schema returns the CREATE statements for the tasks table and its indexes.
// Sample rows are deliberately left out: they would belong to other owners.
func (s *Store) Schema(ctx context.Context) (string, error) {
	var parts []string
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT sql FROM sqlite_master WHERE tbl_name = ? AND sql IS NOT NULL ORDER BY type DESC, name`,
			TableName)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var stmt string
			if err := rows.Scan(&stmt); err != nil {
				return err
			}
			parts = append(parts, strings.TrimSpace(stmt))
		}
		return rows.Err()
	})
	if err != nil {
		return "", fmt.Errorf("read schema: %w", err)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("read schema: table %s not found", TableName)
	}
	return strings.Join(parts, ";\n\n") + ";", nil
}

// Query runs a read statement.
func (s *Store) Query(ctx context.Context, stmt string) (service.Rows, error) {
	var result service.Rows
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, stmt)
		if err != nil {
			return err
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		result.Columns = cols

		for rows.Next() {
			vals := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range vals {
				ptrs[i] = &vals[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return err
			}
			for i, v := range vals {
				if b, ok := v.([]byte); ok {
					vals[i] = string(b)
				}
			}
			result.Values = append(result.Values, vals)
		}
		return rows.Err()
	})
	if err != nil {
		return service.Rows{}, wrapError(err)
	}
	return result, nil
}

// Exec runs a write statement in its own transaction.
func (s *Store) Exec(ctx context.Context, stmt string) (service.ExecResult, error) {
	var result service.ExecResult
	err := s.withDB(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		res, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			return err
		}
		if result.LastInsertID, err = res.LastInsertId(); err != nil {
			return err
		}
		if result.RowsAffected, err = res.RowsAffected(); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return service.ExecResult{}, wrapError(err)
	}
	return result, nil
}

// TaskByID returns the owner's task with the given id, or nil if none.
func (s *Store) TaskByID(ctx context.Context, id int64, email string) (*service.Task, error) {
	var task *service.Task
	err := s.withDB(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			"SELECT "+taskColumns+" FROM tasks WHERE id = ? AND user_email = ?", id, email)
		t, err := scanTask(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		task = &t
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch task %d: %w", id, err)
	}
	return task, nil
}

// Count returns the number of tasks stored for the owner.
func (s *Store) Count(ctx context.Context, email string) (int, error) {
	var n int
	err := s.withDB(ctx, func(db *sql.DB) error {
		return db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE user_email = ?", email).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func scanTask(row *sql.Row) (service.Task, error) {
	var (
		t                                                        service.Task
		userName, userEmail, status, category, created, due, tim sql.NullString
	)
	err := row.Scan(&t.ID, &userName, &userEmail, &t.Name, &status, &category, &created, &due, &tim)
	if err != nil {
		return service.Task{}, err
	}
	t.UserName = userName.String
	t.UserEmail = userEmail.String
	t.Status = status.String
	t.Category = category.String
	t.CreatedAt = created.String
	t.DueDate = due.String
	t.DueTime = tim.String
	return t, nil
}

// wrapError marks uniqueness violations with service.ErrUniqueViolation.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %s", service.ErrUniqueViolation, sqliteErr.Error())
		}
	}
	return err
}
