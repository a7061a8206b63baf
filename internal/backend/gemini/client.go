// Package gemini implements service.Generator using the Google Generative
// Language API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"tasktalk/internal/config"
)

// Scopes requested for OAuth-authenticated model calls.
var Scopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/generative-language.retriever",
}

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("model returned no text")

// Client implements service.Generator.
type Client struct {
	svc         *generativelanguage.Service
	model       string
	temperature float64
	timeout     time.Duration
}

// New creates a client from the settings in cfg. An API key takes
// precedence; otherwise the token saved by `tasktalk auth` is used.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	var opt option.ClientOption
	if cfg.Settings.APIKey != "" {
		opt = option.WithAPIKey(cfg.Settings.APIKey)
	} else {
		ts, err := TokenSource(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("no api key configured: %w", err)
		}
		opt = option.WithHTTPClient(oauth2.NewClient(ctx, ts))
	}

	svc, err := generativelanguage.NewService(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create generative language service: %w", err)
	}
	return newClient(svc, cfg.Settings), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string, settings config.Settings) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return newClient(svc, settings), nil
}

func newClient(svc *generativelanguage.Service, settings config.Settings) *Client {
	model := settings.Model
	if model == "" {
		model = config.DefaultModel
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Client{
		svc:         svc,
		model:       model,
		temperature: settings.Temperature,
		timeout:     timeout,
	}
}

// Model returns the fully qualified model name.
func (c *Client) Model() string {
	return c.model
}

// Generate sends one prompt and returns the concatenated text of the first
// candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{
			Role:  "user",
			Parts: []*generativelanguage.Part{{Text: prompt}},
		}},
		GenerationConfig: &generativelanguage.GenerationConfig{
			Temperature:     c.temperature,
			ForceSendFields: []string{"Temperature"},
		},
	}

	resp, err := c.svc.Models.GenerateContent(c.model, req).Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	return responseText(resp)
}

func responseText(resp *generativelanguage.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", ErrEmptyResponse
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		if cand.FinishReason != "" {
			return "", fmt.Errorf("%w (finish reason %s)", ErrEmptyResponse, cand.FinishReason)
		}
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("model request timed out: %w", err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("model credentials rejected (check api_key or run: tasktalk auth): %w", err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("model quota exceeded: %w", err)
		case http.StatusNotFound:
			return fmt.Errorf("model not found: %w", err)
		}
	}

	return fmt.Errorf("model request failed: %w", err)
}
