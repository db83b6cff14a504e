// Package llm generates an optional natural-language summary of a
// finished scoring run. The summary is presentation only: it is
// produced after scoring and can never affect a score or a stored row.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Provider completes one prompt into text
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Config configures the summary backend
type Config struct {
	Model   string
	APIKey  string
	BaseURL string // Optional OpenAI-compatible endpoint override
	Timeout time.Duration
}

// NewProvider builds the configured provider. Only OpenAI-compatible
// backends are supported; BaseURL points local servers at the same
// client.
func NewProvider(cfg Config) (Provider, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("llm: API key or base URL required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return newOpenAIProvider(cfg), nil
}
