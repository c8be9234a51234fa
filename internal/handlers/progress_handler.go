package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-maker/internal/services"
)

type ProgressHandler struct {
	storageService services.StorageService
}

func NewProgressHandler(storageService services.StorageService) *ProgressHandler {
	return &ProgressHandler{
		storageService: storageService,
	}
}

// HandleProgress reports a job's status. Unknown candidates read as running
// with a placeholder message.
func (h *ProgressHandler) HandleProgress(c *fiber.Ctx) error {
	candidateID := c.Query("candidate_id")
	if candidateID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "candidate_id is required",
			"code":  fiber.StatusBadRequest,
		})
	}

	return c.JSON(currentSession(c).Jobs.Snapshot(candidateID))
}

// HandleDownload serves a generated file by its exact name. The route
// parameter arrives still percent-encoded.
func (h *ProgressHandler) HandleDownload(c *fiber.Ctx) error {
	filename, err := url.PathUnescape(c.Params("filename"))
	if err != nil || !services.IsPlainFilename(filename) {
		return writeError(c, fiber.NewError(fiber.StatusBadRequest, "invalid file name"))
	}
	if !h.storageService.Exists(filename) {
		return writeError(c, fiber.NewError(fiber.StatusNotFound, "file not found"))
	}

	c.Type("pdf")
	return c.Download(h.storageService.GetFilePath(filename), filename)
}
