package services

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"alfredoptarigan/resume-maker/internal/models"
)

//go:embed resume_schema.json
var resumeSchemaJSON []byte

var resumeSchema = mustCompileSchema(resumeSchemaJSON)

func mustCompileSchema(raw []byte) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid resume schema: %v", err))
	}
	return schema
}

func mustDecodeSchema(raw []byte) map[string]any {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		panic(fmt.Sprintf("invalid resume schema: %v", err))
	}
	return doc
}

// ResumeSchemaFormat is the strict response format sent with the reformat
// call.
func ResumeSchemaFormat() *JSONSchemaFormat {
	return &JSONSchemaFormat{
		Name:   "new_resume",
		Strict: true,
		Schema: mustDecodeSchema(resumeSchemaJSON),
	}
}

type ResumeReformatter interface {
	Reformat(ctx context.Context, candidate models.CandidateRecord, oldResumeText string) (string, error)
}

type resumeReformatter struct {
	llm           ChatCompleter
	promptBuilder *PromptBuilder
}

func NewResumeReformatter(llm ChatCompleter) ResumeReformatter {
	return &resumeReformatter{
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
	}
}

// Reformat returns the raw reply text. It is not validated here; use
// ParseStructuredResume on the result.
func (r *resumeReformatter) Reformat(ctx context.Context, candidate models.CandidateRecord, oldResumeText string) (string, error) {
	var matrix bytes.Buffer
	enc := json.NewEncoder(&matrix)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(candidate); err != nil {
		return "", fmt.Errorf("failed to encode competency matrix: %w", err)
	}

	prompt := r.promptBuilder.BuildReformatPrompt(strings.TrimSpace(matrix.String()), oldResumeText, ResumeFormatExample)
	log.Printf("📝 Reformat prompt length: %d characters\n", len(prompt))

	reply, err := r.llm.Complete(ctx, ChatRequest{
		System:      reformatSystemPrompt,
		User:        prompt,
		Temperature: 0,
		Schema:      ResumeSchemaFormat(),
	})
	if err != nil {
		return "", err
	}

	log.Printf("✅ Reformat response received: %d characters\n", len(reply))
	return reply, nil
}

// ParseStructuredResume validates a model reply against the resume schema and
// decodes it. Markdown code fences around the JSON are tolerated.
func ParseStructuredResume(raw string) (*models.StructuredResume, error) {
	jsonStr := extractJSON(raw)

	result, err := resumeSchema.Validate(gojsonschema.NewStringLoader(jsonStr))
	if err != nil {
		return nil, &SchemaViolationError{Err: err}
	}
	if !result.Valid() {
		violations := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			violations = append(violations, fmt.Sprintf("%s: %s", field, desc.Description()))
		}
		return nil, &SchemaViolationError{Violations: violations}
	}

	var resume models.StructuredResume
	if err := json.Unmarshal([]byte(jsonStr), &resume); err != nil {
		return nil, &SchemaViolationError{Err: err}
	}
	return &resume, nil
}

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return strings.TrimSpace(text)
}
