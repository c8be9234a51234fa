package handlers

import (
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-maker/internal/models"
	"alfredoptarigan/resume-maker/internal/services"
)

type ResumeHandler struct {
	pdfParser   services.PDFParserService
	worker      services.Worker
	maxFileSize int64
}

func NewResumeHandler(
	pdfParser services.PDFParserService,
	worker services.Worker,
	maxFileSize int64,
) *ResumeHandler {
	return &ResumeHandler{
		pdfParser:   pdfParser,
		worker:      worker,
		maxFileSize: maxFileSize,
	}
}

// HandleUploadOldResume extracts the old resume text and queues a generation
// job for the selected candidate. The client polls /progress afterwards.
func (h *ResumeHandler) HandleUploadOldResume(c *fiber.Ctx) error {
	session := currentSession(c)

	candidate, ok := session.Selected()
	if !ok {
		return writeError(c, services.ErrNoCandidate)
	}

	file, err := c.FormFile("file")
	if err != nil || file.Filename == "" {
		return writeError(c, services.NewInvalidInputError("no file selected, please upload the old resume as a PDF", err))
	}

	data, err := readUpload(file, h.maxFileSize)
	if err != nil {
		return writeError(c, err)
	}

	text, err := h.pdfParser.ExtractTextFromBytes(data)
	if err != nil {
		return writeError(c, err)
	}

	if err := session.Jobs.Start(candidate.ID); err != nil {
		return writeError(c, err)
	}

	job := services.GenerationJob{
		SessionID:     session.ID,
		Candidate:     candidate,
		OldResumeText: text,
		Tracker:       session.Jobs,
	}
	if err := h.worker.Enqueue(job); err != nil {
		session.Jobs.Fail(candidate.ID, err)
		return writeError(c, err)
	}

	log.Printf("📨 Queued resume generation for %s\n", job)

	c.Status(fiber.StatusAccepted)
	if wantsHTML(c) {
		return renderPage(c, "progress", progressPage{CandidateID: candidate.ID})
	}
	return c.JSON(models.GenerateResponse{
		CandidateID: candidate.ID,
		Status:      models.JobRunning,
		ProgressURL: "/progress?candidate_id=" + url.QueryEscape(candidate.ID),
	})
}
