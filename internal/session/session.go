// Package session holds the logged-in identity, the conversation context and
// the cached schema text, and persists them between invocations.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"tasktalk/internal/prompt"
	"tasktalk/internal/service"
)

// NoContext is the snapshot sent to the model when no task is in focus.
const NoContext = prompt.NoContext

var (
	// ErrEmptyName is returned by ValidateName for a blank name.
	ErrEmptyName = errors.New("please enter your name")

	// ErrEmptyEmail is returned by ValidateEmail for a blank address.
	ErrEmptyEmail = errors.New("please enter your email")

	// ErrInvalidEmail is returned by ValidateEmail for a malformed address.
	ErrInvalidEmail = errors.New("invalid email format (e.g., user@example.com)")

	// ErrSessionChanged is returned when the session file no longer holds
	// this session because of a login or logout in another process.
	ErrSessionChanged = errors.New("session changed by another login or logout")
)

// Identity is the owner every statement is scoped to.
type Identity struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// ValidateName rejects a blank display name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// ValidateEmail accepts an address with an "@" whose domain contains a dot
// and ends in a label of at least two characters.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmptyEmail
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ErrInvalidEmail
	}
	domain := email[at+1:]
	dot := strings.LastIndex(domain, ".")
	if dot < 0 || len(domain)-dot-1 < 2 {
		return ErrInvalidEmail
	}
	return nil
}

// Session is the per-owner state carried from one turn to the next.
type Session struct {
	ID       string   `yaml:"id,omitempty"`
	Identity Identity `yaml:"identity,omitempty"`

	// Context is the last task interacted with, or nil.
	Context *service.Task `yaml:"context,omitempty"`

	// Schema caches the store's CREATE text. SchemaStale forces a refresh
	// before the next translation.
	Schema      string `yaml:"schema,omitempty"`
	SchemaStale bool   `yaml:"schema_stale,omitempty"`
}

// LoggedIn reports whether an identity is set.
func (s *Session) LoggedIn() bool {
	return s.Identity.Email != ""
}

// Login validates the identity and starts a fresh conversation.
func (s *Session) Login(name, email string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	s.ID = uuid.NewString()
	s.Identity = Identity{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	s.Context = nil
	s.SchemaStale = true
	return nil
}

// Logout clears all session state.
func (s *Session) Logout() {
	*s = Session{}
}

// ContextSnapshot renders the context for the translation prompt, leaving
// out empty fields.
func (s *Session) ContextSnapshot() string {
	t := s.Context
	if t == nil {
		return NoContext
	}
	var parts []string
	if t.ID != 0 {
		parts = append(parts, fmt.Sprintf("id: %d", t.ID))
	}
	if t.Name != "" {
		parts = append(parts, fmt.Sprintf("name: '%s'", t.Name))
	}
	if t.DueDate != "" {
		parts = append(parts, "due_date: "+t.DueDate)
	}
	if t.DueTime != "" {
		parts = append(parts, "due_time: "+t.DueTime)
	}
	if t.Status != "" {
		parts = append(parts, fmt.Sprintf("status: '%s'", t.Status))
	}
	return "This is the context of the last task interacted with " +
		"(use it for implicit references like 'this task' or 'the last one'): " +
		strings.Join(parts, ", ")
}

// Caption is the one-line context shown to the user, or "" without context.
func (s *Session) Caption() string {
	t := s.Context
	if t == nil {
		return ""
	}
	name := t.Name
	if name == "" {
		name = "N/A"
	}
	caption := fmt.Sprintf("Context: Last interacted task was '%s' (ID: %d)", name, t.ID)
	if t.DueDate != "" {
		caption += " - Due: " + t.DueDate
	}
	if t.DueTime != "" {
		caption += " at " + t.DueTime
	}
	return caption
}

// Load reads the session file. A missing file yields an empty session.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid session file %s: %w", filepath.Base(path), err)
	}
	return &s, nil
}

// Save writes the session file with mode 0600, creating its directory with
// mode 0700.
func (s *Session) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Current returns ErrSessionChanged unless the file at path still holds
// this session.
func (s *Session) Current(path string) error {
	disk, err := Load(path)
	if err != nil {
		return err
	}
	if disk.ID != s.ID {
		return ErrSessionChanged
	}
	return nil
}

// SaveCurrent is Save guarded by Current, so a stale process cannot replace
// a newer login.
func (s *Session) SaveCurrent(path string) error {
	if err := s.Current(path); err != nil {
		return err
	}
	return s.Save(path)
}
