package ai

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeProvider implements Client using Anthropic's Claude
type ClaudeProvider struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewClaudeProvider creates a new Claude provider
func NewClaudeProvider(model string, opts Options) (*ClaudeProvider, error) {
	opts = opts.withDefaults()

	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ELEMENTSCOUT_ANTHROPIC_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ELEMENTSCOUT_ANTHROPIC_KEY or ANTHROPIC_API_KEY environment variable required")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(opts.Timeout),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := anthropic.NewClient(reqOpts...)

	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}

	return &ClaudeProvider{
		client:    &client,
		model:     model,
		maxTokens: opts.MaxTokens,
	}, nil
}

// Complete sends one system + user exchange and returns the first text block
func (p *ClaudeProvider) Complete(ctx context.Context, systemPrompt, userContent string) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(p.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userContent)),
		},
	})
	if err != nil {
		return "", &ModelError{Provider: "Claude", Err: err}
	}

	// Extract text content
	var responseText string
	for _, block := range resp.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return "", &ModelError{Provider: "Claude", Err: fmt.Errorf("empty response")}
	}
	return responseText, nil
}
