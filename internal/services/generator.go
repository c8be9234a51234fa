package services

import (
	"context"
	"fmt"
	"log"

	"alfredoptarigan/resume-maker/internal/models"
)

// GenerationJob is one resume generation request. Tracker receives progress
// messages and the final outcome under Candidate.ID; it may be nil.
type GenerationJob struct {
	SessionID     string
	Candidate     models.CandidateRecord
	OldResumeText string
	Tracker       *JobTracker
}

func (j GenerationJob) Key() string {
	return j.Candidate.ID
}

func (j GenerationJob) String() string {
	if j.SessionID == "" {
		return j.Candidate.ID
	}
	return fmt.Sprintf("%s/%s", j.SessionID, j.Candidate.ID)
}

func (j GenerationJob) progress(message string) {
	if j.Tracker != nil {
		j.Tracker.Append(j.Key(), message)
	}
}

type ResumeGenerator interface {
	Generate(ctx context.Context, job GenerationJob) (string, error)
}

type resumeGenerator struct {
	reformatter ResumeReformatter
	renderer    PDFRenderer
}

func NewResumeGenerator(reformatter ResumeReformatter, renderer PDFRenderer) ResumeGenerator {
	return &resumeGenerator{
		reformatter: reformatter,
		renderer:    renderer,
	}
}

// Generate runs reformat, parse and render for one job and records the
// outcome on the job's tracker.
func (g *resumeGenerator) Generate(ctx context.Context, job GenerationJob) (string, error) {
	filename, err := g.run(ctx, job)
	if job.Tracker != nil {
		if err != nil {
			job.Tracker.Fail(job.Key(), err)
		} else {
			job.Tracker.Complete(job.Key(), filename)
		}
	}
	return filename, err
}

func (g *resumeGenerator) run(ctx context.Context, job GenerationJob) (string, error) {
	log.Printf("🔄 Starting resume generation for job %s\n", job)
	job.progress(MsgStarting)

	job.progress(MsgCallingLLM)
	raw, err := g.reformatter.Reformat(ctx, job.Candidate, job.OldResumeText)
	if err != nil {
		return "", fmt.Errorf("failed to reformat resume: %w", err)
	}

	resume, err := ParseStructuredResume(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse reformatted resume: %w", err)
	}
	job.progress(MsgReformatComplete)

	job.progress(MsgGeneratingPDF)
	filename, err := g.renderer.Render(ctx, *resume)
	if err != nil {
		return "", fmt.Errorf("failed to render resume: %w", err)
	}
	job.progress(MsgPDFComplete)

	log.Printf("✅ Resume generation completed for job %s: %s\n", job, filename)
	return filename, nil
}
