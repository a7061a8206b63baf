// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"tasktalk/internal/service"
)

// ErrFake is a generic injected failure.
var ErrFake = errors.New("fake failure")

// FakeGenerator is a scripted service.Generator. Responses are returned in
// order; when they run out, Default is returned.
type FakeGenerator struct {
	mu        sync.Mutex
	responses []string
	prompts   []string

	// Default is returned once the scripted responses are used up.
	Default string

	// Err, when set, is returned by every call.
	Err error
}

// NewFakeGenerator creates a generator answering with responses in order.
func NewFakeGenerator(responses ...string) *FakeGenerator {
	return &FakeGenerator{responses: responses}
}

// Generate implements service.Generator.
func (f *FakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	if len(f.responses) == 0 {
		return f.Default, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

// Prompts returns every prompt received so far.
func (f *FakeGenerator) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.prompts))
	copy(out, f.prompts)
	return out
}

// FakeAssistant is a service.Assistant driven by functions, so tests can
// answer based on the request (for example the context snapshot).
type FakeAssistant struct {
	mu         sync.Mutex
	translates []service.TranslateRequest
	summaries  []service.SummarizeRequest

	// TranslateFunc produces the statement. Required.
	TranslateFunc func(req service.TranslateRequest) (string, error)

	// SummarizeFunc produces the summary. When nil, "ok: <effect>" is returned.
	SummarizeFunc func(req service.SummarizeRequest) (string, error)

	// SummarizeErr, when set, fails every summary.
	SummarizeErr error
}

// Translate implements service.Assistant.
func (f *FakeAssistant) Translate(ctx context.Context, req service.TranslateRequest) (string, error) {
	f.mu.Lock()
	f.translates = append(f.translates, req)
	f.mu.Unlock()
	return f.TranslateFunc(req)
}

// Summarize implements service.Assistant.
func (f *FakeAssistant) Summarize(ctx context.Context, req service.SummarizeRequest) (string, error) {
	f.mu.Lock()
	f.summaries = append(f.summaries, req)
	f.mu.Unlock()
	if f.SummarizeErr != nil {
		return "", f.SummarizeErr
	}
	if f.SummarizeFunc != nil {
		return f.SummarizeFunc(req)
	}
	return "ok: " + req.Effect, nil
}

// TranslateRequests returns the translation requests received so far.
func (f *FakeAssistant) TranslateRequests() []service.TranslateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.TranslateRequest, len(f.translates))
	copy(out, f.translates)
	return out
}

// SummarizeRequests returns the summary requests received so far.
func (f *FakeAssistant) SummarizeRequests() []service.SummarizeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.SummarizeRequest, len(f.summaries))
	copy(out, f.summaries)
	return out
}

// Statements returns a TranslateFunc answering with stmts in order; once
// they are used up it fails with ErrFake.
func Statements(stmts ...string) func(service.TranslateRequest) (string, error) {
	var mu sync.Mutex
	return func(service.TranslateRequest) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(stmts) == 0 {
			return "", ErrFake
		}
		s := stmts[0]
		stmts = stmts[1:]
		return s, nil
	}
}
