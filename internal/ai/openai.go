package ai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Client using the OpenAI chat completions API.
// Ollama speaks the same protocol, so it is served by this type too.
type OpenAIProvider struct {
	client    *openai.Client
	name      string
	model     string
	maxTokens int
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(model string, opts Options) (*OpenAIProvider, error) {
	opts = opts.withDefaults()

	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ELEMENTSCOUT_OPENAI_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ELEMENTSCOUT_OPENAI_KEY or OPENAI_API_KEY environment variable required")
	}

	if model == "" {
		model = openai.GPT4o
	}

	return newChatProvider("OpenAI", apiKey, model, opts), nil
}

// DefaultOllamaHost is where a local Ollama server listens
const DefaultOllamaHost = "http://localhost:11434"

// NewOllamaProvider creates a provider for a local Ollama server through its
// OpenAI compatible endpoint. No API key is required.
func NewOllamaProvider(model string, opts Options) (*OpenAIProvider, error) {
	opts = opts.withDefaults()

	host := opts.BaseURL
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	if host == "" {
		host = DefaultOllamaHost
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	opts.BaseURL = strings.TrimSuffix(host, "/") + "/v1"

	if model == "" {
		model = "mistral:7b"
	}

	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = "ollama"
	}

	return newChatProvider("Ollama", apiKey, model, opts), nil
}

func newChatProvider(name, apiKey, model string, opts Options) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(cfg),
		name:      name,
		model:     model,
		maxTokens: opts.MaxTokens,
	}
}

// Complete sends one system + user exchange and returns the first choice
func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt, userContent string) (string, error) {
	resp, err := p.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: p.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: userContent,
				},
			},
			MaxTokens: p.maxTokens,
		},
	)
	if err != nil {
		return "", &ModelError{Provider: p.name, Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &ModelError{Provider: p.name, Err: fmt.Errorf("empty response")}
	}

	return resp.Choices[0].Message.Content, nil
}
