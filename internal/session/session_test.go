package session_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tasktalk/internal/service"
	"tasktalk/internal/session"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  error
	}{
		{"ada@example.com", nil},
		{"a.b+c@mail.example.org", nil},
		{"  ada@example.io ", nil},
		{"", session.ErrEmptyEmail},
		{"ada.example.com", session.ErrInvalidEmail},
		{"ada@localhost", session.ErrInvalidEmail},
		{"ada@example.c", session.ErrInvalidEmail},
		{"ada@example.", session.ErrInvalidEmail},
	}

	for _, tt := range tests {
		if err := session.ValidateEmail(tt.email); !errors.Is(err, tt.want) {
			t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, err, tt.want)
		}
	}
}

func TestValidateName(t *testing.T) {
	if err := session.ValidateName("  "); !errors.Is(err, session.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
	if err := session.ValidateName("Ada"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLogin_ResetsConversation(t *testing.T) {
	s := &session.Session{
		Context: &service.Task{ID: 3, Name: "Old"},
		Schema:  "CREATE TABLE tasks (id INTEGER)",
	}

	if err := s.Login(" Ada ", "ada@example.com"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if s.Identity.Name != "Ada" || s.Identity.Email != "ada@example.com" {
		t.Errorf("unexpected identity %+v", s.Identity)
	}
	if s.Context != nil {
		t.Error("expected context cleared on login")
	}
	if s.ID == "" {
		t.Error("expected a session id")
	}
	if !s.SchemaStale {
		t.Error("expected schema marked stale")
	}
	if !s.LoggedIn() {
		t.Error("expected LoggedIn after Login")
	}
}

func TestLogin_InvalidLeavesSessionUntouched(t *testing.T) {
	s := &session.Session{}
	if err := s.Login("Ada", "not-an-email"); !errors.Is(err, session.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if s.LoggedIn() || s.ID != "" {
		t.Errorf("expected empty session, got %+v", s)
	}
}

func TestLogout(t *testing.T) {
	s := &session.Session{}
	if err := s.Login("Ada", "ada@example.com"); err != nil {
		t.Fatal(err)
	}
	s.Context = &service.Task{ID: 1}
	s.Schema = "CREATE TABLE tasks"

	s.Logout()

	if s.LoggedIn() || s.Context != nil || s.Schema != "" || s.ID != "" {
		t.Errorf("expected cleared session, got %+v", s)
	}
}

func TestContextSnapshot(t *testing.T) {
	s := &session.Session{}
	if got := s.ContextSnapshot(); got != session.NoContext {
		t.Errorf("expected %q, got %q", session.NoContext, got)
	}

	s.Context = &service.Task{ID: 7, Name: "Submit report", DueDate: "2025-01-17", Status: "pending"}
	got := s.ContextSnapshot()
	want := "This is the context of the last task interacted with (use it for implicit references like 'this task' or 'the last one'): " +
		"id: 7, name: 'Submit report', due_date: 2025-01-17, status: 'pending'"
	if got != want {
		t.Errorf("ContextSnapshot:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestCaption(t *testing.T) {
	s := &session.Session{}
	if s.Caption() != "" {
		t.Errorf("expected empty caption, got %q", s.Caption())
	}

	s.Context = &service.Task{ID: 7, Name: "Submit report", DueDate: "2025-01-17", DueTime: "15:00"}
	want := "Context: Last interacted task was 'Submit report' (ID: 7) - Due: 2025-01-17 at 15:00"
	if got := s.Caption(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	s.Context = &service.Task{ID: 8, Name: "Call mom"}
	if got := s.Caption(); got != "Context: Last interacted task was 'Call mom' (ID: 8)" {
		t.Errorf("unexpected caption %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := session.Load(filepath.Join(t.TempDir(), "session.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.LoggedIn() || s.Context != nil {
		t.Errorf("expected empty session, got %+v", s)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")

	s := &session.Session{}
	if err := s.Login("Ada", "ada@example.com"); err != nil {
		t.Fatal(err)
	}
	s.Context = &service.Task{ID: 4, Name: "Project meeting", DueDate: "2025-01-11", DueTime: "10:00", Status: "pending"}
	s.Schema = "CREATE TABLE tasks (id INTEGER PRIMARY KEY)"

	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
	}

	loaded, err := session.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != s.ID || loaded.Identity != s.Identity {
		t.Errorf("identity mismatch: got %+v, want %+v", loaded, s)
	}
	if loaded.Context == nil || *loaded.Context != *s.Context {
		t.Errorf("context mismatch: got %+v, want %+v", loaded.Context, s.Context)
	}
	if loaded.Schema != s.Schema || !loaded.SchemaStale {
		t.Errorf("schema cache mismatch: %+v", loaded)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	if err := os.WriteFile(path, []byte("identity: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := session.Load(path)
	if err == nil || !strings.Contains(err.Error(), "invalid session file") {
		t.Errorf("expected invalid session error, got %v", err)
	}
}

func TestSaveCurrent_RefusesReplacedSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")

	shell := &session.Session{}
	if err := shell.Login("Ada", "ada@example.com"); err != nil {
		t.Fatal(err)
	}
	if err := shell.Save(path); err != nil {
		t.Fatal(err)
	}
	if err := shell.SaveCurrent(path); err != nil {
		t.Fatalf("expected save of current session, got %v", err)
	}

	other := &session.Session{}
	if err := other.Login("Bob", "bob@example.com"); err != nil {
		t.Fatal(err)
	}
	if err := other.Save(path); err != nil {
		t.Fatal(err)
	}

	if err := shell.SaveCurrent(path); !errors.Is(err, session.ErrSessionChanged) {
		t.Fatalf("expected ErrSessionChanged, got %v", err)
	}
	got, err := session.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Identity.Email != "bob@example.com" {
		t.Errorf("newer login overwritten: %+v", got.Identity)
	}
}

func TestCurrent_AfterLogout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	sess := &session.Session{}
	if err := sess.Login("Ada", "ada@example.com"); err != nil {
		t.Fatal(err)
	}

	if err := sess.Current(path); !errors.Is(err, session.ErrSessionChanged) {
		t.Errorf("expected ErrSessionChanged for missing file, got %v", err)
	}
}
