package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"
)

const geminiService = "gemini"

type geminiClient struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

func NewGeminiService(ctx context.Context, apiKey, model string, timeout time.Duration) (ChatCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &geminiClient{
		client:    client,
		modelName: model,
		timeout:   timeout,
	}, nil
}

// Complete implements ChatCompleter.
func (g *geminiClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 8192,
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = schemaFromMap(req.Schema.Schema)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(req.User), config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v\n", err)
		return "", &UpstreamServiceError{Service: geminiService, Err: err}
	}

	if resp == nil {
		return "", &UpstreamServiceError{Service: geminiService, Message: "nil response"}
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &UpstreamServiceError{Service: geminiService, Message: "response has no text content"}
	}

	return text, nil
}

// schemaFromMap converts a JSON Schema document into the subset Gemini
// accepts. additionalProperties has no equivalent and is dropped; replies are
// validated against the full schema afterwards anyway.
func schemaFromMap(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}

	s := &genai.Schema{}
	if t, ok := m["type"].(string); ok {
		switch t {
		case "object":
			s.Type = genai.TypeObject
		case "array":
			s.Type = genai.TypeArray
		case "string":
			s.Type = genai.TypeString
		case "number":
			s.Type = genai.TypeNumber
		case "integer":
			s.Type = genai.TypeInteger
		case "boolean":
			s.Type = genai.TypeBoolean
		}
	}
	if d, ok := m["description"].(string); ok {
		s.Description = d
	}
	if props, ok := m["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if child, ok := raw.(map[string]any); ok {
				s.Properties[name] = schemaFromMap(child)
			}
		}
	}
	if items, ok := m["items"].(map[string]any); ok {
		s.Items = schemaFromMap(items)
	}
	if required, ok := m["required"].([]any); ok {
		for _, r := range required {
			if name, ok := r.(string); ok {
				s.Required = append(s.Required, name)
			}
		}
	}
	return s
}
