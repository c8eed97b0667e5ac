package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider("bard", "", Options{}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestNewProviderRequiresKeys(t *testing.T) {
	t.Setenv("ELEMENTSCOUT_OPENAI_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ELEMENTSCOUT_ANTHROPIC_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	if _, err := NewProvider("openai", "", Options{}); err == nil {
		t.Fatalf("expected missing OpenAI key error")
	}
	if _, err := NewProvider("claude", "", Options{}); err == nil {
		t.Fatalf("expected missing Anthropic key error")
	}
	if _, err := NewProvider("ollama", "", Options{}); err != nil {
		t.Fatalf("ollama should not need a key: %v", err)
	}
}

func TestOllamaProviderUsesCompatEndpoint(t *testing.T) {
	var gotPath string
	var gotReq struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"mistral:7b","choices":[{"index":0,"message":{"role":"assistant","content":"[[\"b1\", \"button\", \"Go\", \"click\"]]"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p, err := NewOllamaProvider("", Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	got, err := p.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != `[["b1", "button", "Go", "click"]]` {
		t.Fatalf("unexpected completion %q", got)
	}
	if gotPath != "/v1/chat/completions" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotReq.Model != "mistral:7b" {
		t.Fatalf("expected default ollama model, got %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[0].Content != "sys" || gotReq.Messages[1].Content != "user" {
		t.Fatalf("unexpected messages %+v", gotReq.Messages)
	}
}

func TestOpenAIProviderWrapsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider("gpt-4o-mini", Options{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	_, err = p.Complete(context.Background(), "sys", "user")
	var me *ModelError
	if !errors.As(err, &me) {
		t.Fatalf("expected *ModelError, got %v", err)
	}
	if me.Provider != "OpenAI" {
		t.Fatalf("unexpected provider %q", me.Provider)
	}
}

func TestOpenAIProviderEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider("m", Options{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if _, err := p.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestClaudeProviderReturnsText(t *testing.T) {
	var gotReq struct {
		Model  string `json:"model"`
		System []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test","content":[{"type":"text","text":"{\"id\": \"b1\", \"text\": \"Go\"}"}],"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":3,"output_tokens":5}}`))
	}))
	defer srv.Close()

	p, err := NewClaudeProvider("claude-test", Options{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	got, err := p.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != `{"id": "b1", "text": "Go"}` {
		t.Fatalf("unexpected completion %q", got)
	}
	if gotPath != "/v1/messages" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotReq.Model != "claude-test" || len(gotReq.System) != 1 || gotReq.System[0].Text != "sys" {
		t.Fatalf("unexpected request %+v", gotReq)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Fatalf("unexpected messages %+v", gotReq.Messages)
	}
}

func TestClaudeProviderWrapsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"boom"}}`))
	}))
	defer srv.Close()

	p, err := NewClaudeProvider("claude-test", Options{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	_, err = p.Complete(context.Background(), "sys", "user")
	var me *ModelError
	if !errors.As(err, &me) || me.Provider != "Claude" {
		t.Fatalf("expected Claude *ModelError, got %v", err)
	}
}

func TestLoadPromptsOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/classify.txt"
	if err := writeFile(path, "custom rules"); err != nil {
		t.Fatalf("write: %v", err)
	}

	p, err := LoadPrompts(PromptFiles{Classify: path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := DefaultPrompts()
	if p.Classify != "custom rules" || p.Locate != def.Locate || p.Script != def.Script || p.Missing != def.Missing {
		t.Fatalf("unexpected prompts %+v", p)
	}

	if _, err := LoadPrompts(PromptFiles{Alternative: dir + "/missing.txt"}); err == nil {
		t.Fatalf("expected error for missing prompt file")
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
