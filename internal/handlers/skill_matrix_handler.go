package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-maker/internal/models"
	"alfredoptarigan/resume-maker/internal/repositories"
	"alfredoptarigan/resume-maker/internal/services"
)

var validate = validator.New()

type SkillMatrixHandler struct {
	ingestor    services.SkillMatrixIngestor
	uploadRepo  repositories.UploadRepository
	maxFileSize int64
}

// NewSkillMatrixHandler builds the handler. uploadRepo may be nil, in which
// case ingestion runs are not archived.
func NewSkillMatrixHandler(
	ingestor services.SkillMatrixIngestor,
	uploadRepo repositories.UploadRepository,
	maxFileSize int64,
) *SkillMatrixHandler {
	return &SkillMatrixHandler{
		ingestor:    ingestor,
		uploadRepo:  uploadRepo,
		maxFileSize: maxFileSize,
	}
}

func (h *SkillMatrixHandler) HandleUpload(c *fiber.Ctx) error {
	session := currentSession(c)

	file, err := c.FormFile("file")
	if err != nil || file.Filename == "" {
		return writeError(c, services.NewInvalidInputError("no file selected, please upload a valid Excel (.xlsx) file", err))
	}

	data, err := readUpload(file, h.maxFileSize)
	if err != nil {
		return writeError(c, err)
	}

	result, err := h.ingestor.Ingest(data)
	if err != nil {
		return writeError(c, err)
	}

	session.SetCandidates(result.Candidates)
	log.Printf("📥 Session %s loaded %d candidates from %s\n", session.ID, len(result.Candidates), file.Filename)

	h.archive(session.ID, file.Filename, result)

	options := candidateOptions(result.Candidates)
	if wantsHTML(c) {
		return renderPage(c, "select", selectPage{Candidates: options, SkippedSheets: result.SkippedSheets})
	}
	return c.JSON(models.SkillMatrixResponse{
		SessionID:     session.ID,
		Candidates:    options,
		SkippedSheets: result.SkippedSheets,
	})
}

func (h *SkillMatrixHandler) HandleListCandidates(c *fiber.Ctx) error {
	session := currentSession(c)
	candidates := session.Candidates()

	if wantsHTML(c) {
		return renderPage(c, "select", selectPage{Candidates: candidateOptions(candidates)})
	}
	return c.JSON(fiber.Map{
		"session_id": session.ID,
		"candidates": candidates,
	})
}

func (h *SkillMatrixHandler) HandleSelect(c *fiber.Ctx) error {
	session := currentSession(c)

	var req models.SelectCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, services.NewInvalidInputError("invalid request body", err))
	}
	req.CandidateID = strings.TrimSpace(req.CandidateID)
	if err := validate.Struct(req); err != nil {
		return writeError(c, services.NewInvalidInputError("candidate_id is required", err))
	}

	candidate, err := session.Select(req.CandidateID)
	if err != nil {
		return writeError(c, err)
	}

	if wantsHTML(c) {
		return renderPage(c, "upload_resume", uploadResumePage{Candidate: candidate})
	}
	return c.JSON(models.SelectCandidateResponse{Candidate: candidate})
}

// archive stores the ingestion run when history is enabled. Failures are
// logged and never fail the upload.
func (h *SkillMatrixHandler) archive(sessionID, filename string, result *services.IngestResult) {
	if h.uploadRepo == nil {
		return
	}

	candidates, err := json.Marshal(result.Candidates)
	if err != nil {
		log.Printf("⚠️  Failed to encode candidates for archive: %v\n", err)
		return
	}

	upload := &models.SkillMatrixUpload{
		SessionID:        sessionID,
		OriginalFileName: filename,
		SheetNames:       strings.Join(result.Sheets, ","),
		SkippedSheets:    strings.Join(result.SkippedSheets, ","),
		CandidateCount:   len(result.Candidates),
		Candidates:       string(candidates),
	}
	if err := h.uploadRepo.Create(upload); err != nil {
		log.Printf("⚠️  Failed to archive upload %s: %v\n", filename, err)
	}
}

func readUpload(file *multipart.FileHeader, maxFileSize int64) ([]byte, error) {
	if maxFileSize > 0 && file.Size > maxFileSize {
		return nil, services.NewInvalidInputError(fmt.Sprintf("file too large, max size: %d bytes", maxFileSize), nil)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) == 0 {
		return nil, services.NewInvalidInputError("uploaded file is empty", nil)
	}

	return data, nil
}
