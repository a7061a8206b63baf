package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tasktalk/internal/backend/gemini"
	"tasktalk/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *gemini.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	settings := config.Settings{
		Model:       "gemini-test",
		Temperature: 0.05,
		Timeout:     5 * time.Second,
	}
	client, err := gemini.NewWithHTTPClient(context.Background(), srv.Client(), srv.URL+"/", settings)
	if err != nil {
		t.Fatalf("NewWithHTTPClient failed: %v", err)
	}
	return client
}

func TestGenerate_ReturnsCandidateText(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"SELECT id "},{"text":"FROM tasks"}]}}]}`))
	})

	text, err := client.Generate(context.Background(), "translate this")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "SELECT id FROM tasks" {
		t.Errorf("expected joined parts, got %q", text)
	}
	if !strings.HasSuffix(gotPath, "models/gemini-test:generateContent") {
		t.Errorf("unexpected request path %q", gotPath)
	}

	contents, _ := gotBody["contents"].([]any)
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %v", gotBody["contents"])
	}
	genCfg, _ := gotBody["generationConfig"].(map[string]any)
	if genCfg["temperature"] != 0.05 {
		t.Errorf("expected temperature 0.05, got %v", genCfg["temperature"])
	}
}

func TestGenerate_NoCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Generate(context.Background(), "hello")
	if !errors.Is(err, gemini.ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGenerate_BlockedPrompt(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	_, err := client.Generate(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "SAFETY") {
		t.Errorf("expected blocked prompt error, got %v", err)
	}
}

func TestGenerate_QuotaExceeded(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := client.Generate(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected quota error, got %v", err)
	}
}

func TestGenerate_Unauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
	})

	_, err := client.Generate(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "credentials rejected") {
		t.Errorf("expected credentials error, got %v", err)
	}
}

func TestGenerate_TimeoutKeepsDeadlineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	settings := config.Settings{Model: "gemini-test", Timeout: 50 * time.Millisecond}
	client, err := gemini.NewWithHTTPClient(context.Background(), srv.Client(), srv.URL+"/", settings)
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Generate(context.Background(), "hello")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "model request timed out") {
		t.Errorf("expected timeout message, got %v", err)
	}
}

func TestNew_NoCredentials(t *testing.T) {
	cfg, _ := config.New(t.TempDir())

	_, err := gemini.New(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "oauth_client.json") {
		t.Errorf("expected missing oauth_client.json error, got %v", err)
	}
}

func TestModel_Prefixed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	if client.Model() != "models/gemini-test" {
		t.Errorf("expected models/gemini-test, got %q", client.Model())
	}
}
