package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-maker/internal/repositories"
)

type UploadHistoryHandler struct {
	uploadRepo repositories.UploadRepository
}

func NewUploadHistoryHandler(uploadRepo repositories.UploadRepository) *UploadHistoryHandler {
	return &UploadHistoryHandler{
		uploadRepo: uploadRepo,
	}
}

func (h *UploadHistoryHandler) disabled(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": "upload history is disabled",
		"code":  fiber.StatusServiceUnavailable,
	})
}

func (h *UploadHistoryHandler) HandleList(c *fiber.Ctx) error {
	if h.uploadRepo == nil {
		return h.disabled(c)
	}

	uploads, err := h.uploadRepo.List(c.QueryInt("limit", 20))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list uploads",
			"code":  fiber.StatusInternalServerError,
		})
	}

	return c.JSON(fiber.Map{
		"uploads": uploads,
	})
}

func (h *UploadHistoryHandler) HandleGet(c *fiber.Ctx) error {
	if h.uploadRepo == nil {
		return h.disabled(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid upload ID format",
			"code":  fiber.StatusBadRequest,
		})
	}

	upload, err := h.uploadRepo.FindByID(id)
	if err != nil {
		code := statusFor(err)
		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  code,
		})
	}

	return c.JSON(upload)
}
