package services

import (
	"context"
	"log"
	"strings"

	"alfredoptarigan/resume-maker/internal/models"
)

type CoverLetterGenerator interface {
	Generate(ctx context.Context, resume models.StructuredResume) (string, error)
}

type coverLetterGenerator struct {
	llm           ChatCompleter
	promptBuilder *PromptBuilder
}

func NewCoverLetterGenerator(llm ChatCompleter) CoverLetterGenerator {
	return &coverLetterGenerator{
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
	}
}

func (c *coverLetterGenerator) Generate(ctx context.Context, resume models.StructuredResume) (string, error) {
	log.Printf("✉️  Generating cover letter for %s\n", resume.FullName())

	letter, err := c.llm.Complete(ctx, ChatRequest{
		System:      coverLetterSystemPrompt,
		User:        c.promptBuilder.BuildCoverLetterPrompt(resume),
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(letter), nil
}
