package ai

import (
	"context"
	"fmt"
	"time"
)

// Client is a text-completion backend: one system instruction, one user message, one answer
type Client interface {
	Complete(ctx context.Context, systemPrompt, userContent string) (string, error)
}

// ClientFunc adapts a plain function to the Client interface
type ClientFunc func(ctx context.Context, systemPrompt, userContent string) (string, error)

// Complete calls f
func (f ClientFunc) Complete(ctx context.Context, systemPrompt, userContent string) (string, error) {
	return f(ctx, systemPrompt, userContent)
}

// ModelError reports a transport failure or an unusable answer from a provider
type ModelError struct {
	Provider string
	Err      error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// Options configures a provider
type Options struct {
	APIKey    string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxTokens == 0 {
		o.MaxTokens = 1024
	}
	if o.Timeout == 0 {
		o.Timeout = 2 * time.Minute
	}
	return o
}

// NewProvider creates a new model client based on the provider name
func NewProvider(name, model string, opts Options) (Client, error) {
	switch name {
	case "claude", "anthropic":
		return NewClaudeProvider(model, opts)
	case "openai", "gpt":
		return NewOpenAIProvider(model, opts)
	case "ollama":
		return NewOllamaProvider(model, opts)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: claude, openai, ollama)", name)
	}
}
