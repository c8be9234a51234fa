package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-maker/internal/models"
	"alfredoptarigan/resume-maker/internal/repositories"
	"alfredoptarigan/resume-maker/internal/services"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var (
		invalid   *services.InvalidInputError
		upstream  *services.UpstreamServiceError
		violation *services.SchemaViolationError
		fiberErr  *fiber.Error
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &invalid), errors.Is(err, services.ErrNoCandidate):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrCandidateNotFound), errors.Is(err, repositories.ErrUploadNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrJobAlreadyRunning):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrQueueFull), errors.Is(err, services.ErrWorkerStopped):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &upstream), errors.As(err, &violation):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError answers with an error page for browsers and JSON otherwise.
func writeError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		log.Printf("❌ %s %s: %v\n", c.Method(), c.Path(), err)
	}

	message := err.Error()
	var invalid *services.InvalidInputError
	if errors.As(err, &invalid) {
		message = invalid.Message
	}

	if wantsHTML(c) {
		return renderPage(c.Status(code), "error", errorPage{Code: code, Message: message})
	}
	return c.Status(code).JSON(models.ErrorResponse{Error: message, Code: code})
}

func wantsHTML(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) == fiber.MIMETextHTML
}
