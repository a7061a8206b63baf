package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"tasktalk/internal/config"
)

// tokenCheckTimeout bounds the refresh done by CheckToken.
const tokenCheckTimeout = 10 * time.Second

// ErrNoRefreshToken is returned by CheckToken for a token that cannot be
// renewed once it expires.
var ErrNoRefreshToken = errors.New("stored token has no refresh token")

// OAuthConfig reads oauth_client.json from the config directory. A missing
// file is reported wrapping os.ErrNotExist.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	data, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.OAuthClientFile, err)
	}
	oc, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.OAuthClientFile, err)
	}
	return oc, nil
}

// LoadToken reads the token saved by SaveToken.
func LoadToken(cfg *config.Config) (*oauth2.Token, error) {
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s (run: tasktalk auth): %w", config.TokenFile, err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.TokenFile, err)
	}
	return &tok, nil
}

// SaveToken writes tok to the config directory with mode 0600.
func SaveToken(cfg *config.Config, tok *oauth2.Token) error {
	if err := cfg.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(cfg.TokenPath(), data, 0600)
}

// TokenSource returns a refreshing source over the stored token.
func TokenSource(ctx context.Context, cfg *config.Config) (oauth2.TokenSource, error) {
	oc, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}
	tok, err := LoadToken(cfg)
	if err != nil {
		return nil, err
	}
	return oc.TokenSource(ctx, tok), nil
}

// CheckToken reports whether the stored token is renewable and currently
// yields an access token.
func CheckToken(ctx context.Context, cfg *config.Config) error {
	tok, err := LoadToken(cfg)
	if err != nil {
		return err
	}
	if tok.RefreshToken == "" {
		return ErrNoRefreshToken
	}

	ctx, cancel := context.WithTimeout(ctx, tokenCheckTimeout)
	defer cancel()
	ts, err := TokenSource(ctx, cfg)
	if err != nil {
		return err
	}
	if _, err := ts.Token(); err != nil {
		return fmt.Errorf("stored token no longer refreshes: %w", err)
	}
	return nil
}
