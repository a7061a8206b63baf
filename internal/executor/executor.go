// Package executor classifies generated statements and runs them exactly
// once against the task store.
package executor

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"tasktalk/internal/service"
)

// Kind tells read statements from writes.
type Kind int

const (
	// Write statements return an affected count or a new id.
	Write Kind = iota
	// Read statements return rows.
	Read
)

func (k Kind) String() string {
	if k == Read {
		return "read"
	}
	return "write"
}

// Write verbs.
const (
	VerbInsert = "INSERT"
	VerbUpdate = "UPDATE"
	VerbDelete = "DELETE"
	VerbSelect = "SELECT"
)

// Outcome is the result of one statement. Rows is set for reads; Affected
// and Verb for writes.
type Outcome struct {
	Kind Kind
	Rows service.Rows

	// Verb is the statement's first keyword, upper-cased.
	Verb string

	// Affected is the new id for INSERT and the affected row count otherwise.
	Affected int64
}

// Created reports whether the outcome is a successful INSERT.
func (o Outcome) Created() bool {
	return o.Kind == Write && o.Verb == VerbInsert
}

// Classify returns the kind and the upper-cased first keyword of stmt.
// A statement is a read if and only if its first token is SELECT.
func Classify(stmt string) (Kind, string) {
	verb := strings.ToUpper(firstToken(stmt))
	if verb == VerbSelect {
		return Read, verb
	}
	return Write, verb
}

func firstToken(stmt string) string {
	s := strings.TrimLeftFunc(stmt, unicode.IsSpace)
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	if end < 0 {
		return s
	}
	return s[:end]
}

// Execute runs stmt once. Reads return every row in store order. Writes
// return the new id (INSERT) or the affected count. Unique violations
// become *DuplicateTaskError; anything else becomes *StoreError.
func Execute(ctx context.Context, store service.Store, stmt string) (Outcome, error) {
	if err := checkSingle(stmt); err != nil {
		return Outcome{}, &StoreError{Statement: stmt, Err: err}
	}

	run := strings.TrimSuffix(strings.TrimSpace(stmt), ";")

	kind, verb := Classify(stmt)
	if kind == Read {
		rows, err := store.Query(ctx, run)
		if err != nil {
			return Outcome{}, &StoreError{Statement: stmt, Err: err}
		}
		return Outcome{Kind: Read, Verb: verb, Rows: rows}, nil
	}

	res, err := store.Exec(ctx, run)
	if err != nil {
		if errors.Is(err, service.ErrUniqueViolation) {
			return Outcome{}, &DuplicateTaskError{Statement: stmt, Conflict: err.Error()}
		}
		return Outcome{}, &StoreError{Statement: stmt, Err: err}
	}

	out := Outcome{Kind: Write, Verb: verb, Affected: res.RowsAffected}
	if verb == VerbInsert {
		out.Affected = res.LastInsertID
	}
	return out, nil
}

// checkSingle rejects input holding anything but whitespace after a
// semicolon. Quoted text and comments before it are skipped.
func checkSingle(stmt string) error {
	var quote rune
	seenEnd := false
	runes := []rune(stmt)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case seenEnd && !unicode.IsSpace(r):
			return ErrMultipleStatements
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == '-' && i+1 < len(runes) && runes[i+1] == '-':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case r == ';':
			seenEnd = true
		}
	}
	return nil
}
