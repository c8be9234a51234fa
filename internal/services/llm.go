package services

import (
	"context"
	"fmt"

	"alfredoptarigan/resume-maker/internal/config"
)

// ChatCompleter sends one system + user exchange to a hosted language model
// and returns the text of the first reply.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

type ChatRequest struct {
	System      string
	User        string
	Temperature float32
	// Schema constrains the reply to JSON matching the schema when set.
	Schema *JSONSchemaFormat
}

type JSONSchemaFormat struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

// NewChatCompleter builds the client for the configured provider.
func NewChatCompleter(cfg *config.Config) (ChatCompleter, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenRouter:
		return NewOpenRouterClient(cfg.LLM.BaseURL, cfg.LLMAPIKey(), cfg.LLM.Model, cfg.LLM.Timeout), nil
	case config.ProviderGemini:
		return NewGeminiService(context.Background(), cfg.LLMAPIKey(), cfg.Gemini.Model, cfg.LLM.Timeout)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLM.Provider)
	}
}
