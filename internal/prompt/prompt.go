// Package prompt renders the translation and summary prompts and cleans up
// model output.
package prompt

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"tasktalk/internal/service"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// NoContext is the context snapshot used when no task is in context.
const NoContext = "None"

// TodayLayout renders "today" for the translation prompt.
const TodayLayout = "Monday, 02 January 2006 (2006-01-02)"

var (
	// ErrNoStatement is returned when the model output is empty after cleanup.
	ErrNoStatement = errors.New("model returned no statement")

	// ErrEmptySummary is returned when the model answers a summary with blanks.
	ErrEmptySummary = errors.New("model returned an empty summary")
)

// TranslationError reports a failed translation. The turn stops before
// anything is executed.
type TranslationError struct {
	Utterance string
	Err       error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("could not generate a statement: %v", e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }

// FormatToday formats t for the TranslateRequest.Today field.
func FormatToday(t time.Time) string {
	return t.Format(TodayLayout)
}

// RenderTranslation renders the translation prompt.
func RenderTranslation(req service.TranslateRequest) (string, error) {
	if req.Context == "" {
		req.Context = NoContext
	}
	return render("translate.tmpl", req)
}

// RenderSummary renders the summary prompt.
func RenderSummary(req service.SummarizeRequest) (string, error) {
	return render("summarize.tmpl", req)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Assistant implements service.Assistant on top of a text generator.
type Assistant struct {
	gen service.Generator
}

// NewAssistant wraps gen.
func NewAssistant(gen service.Generator) *Assistant {
	return &Assistant{gen: gen}
}

// Translate asks the model for one statement and cleans its output.
func (a *Assistant) Translate(ctx context.Context, req service.TranslateRequest) (string, error) {
	text, err := RenderTranslation(req)
	if err != nil {
		return "", &TranslationError{Utterance: req.Utterance, Err: err}
	}

	raw, err := a.gen.Generate(ctx, text)
	if err != nil {
		return "", &TranslationError{Utterance: req.Utterance, Err: err}
	}

	stmt := CleanStatement(raw)
	if stmt == "" {
		return "", &TranslationError{Utterance: req.Utterance, Err: ErrNoStatement}
	}
	return stmt, nil
}

// Summarize asks the model for a confirmation message.
func (a *Assistant) Summarize(ctx context.Context, req service.SummarizeRequest) (string, error) {
	text, err := RenderSummary(req)
	if err != nil {
		return "", err
	}

	summary, err := a.gen.Generate(ctx, text)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("summarize: %w", ErrEmptySummary)
	}
	return summary, nil
}
