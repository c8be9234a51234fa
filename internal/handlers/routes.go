package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-maker/internal/services"
)

type Handlers struct {
	SkillMatrix   *SkillMatrixHandler
	Resume        *ResumeHandler
	Progress      *ProgressHandler
	UploadHistory *UploadHistoryHandler
}

// RegisterRoutes mounts the browser flow at the root and the JSON API under
// /api/v1.
func RegisterRoutes(app *fiber.App, sessions *services.SessionStore, h Handlers) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now(),
			"sessions": sessions.Len(),
		})
	})
	api.Get("/uploads", h.UploadHistory.HandleList)
	api.Get("/uploads/:id", h.UploadHistory.HandleGet)

	withSession := SessionMiddleware(sessions)
	app.Get("/", withSession, HandleIndex)
	app.Post("/upload-skill-matrix", withSession, h.SkillMatrix.HandleUpload)
	app.Get("/candidates", withSession, h.SkillMatrix.HandleListCandidates)
	app.Post("/select-candidate", withSession, h.SkillMatrix.HandleSelect)
	app.Post("/upload-old-resume", withSession, h.Resume.HandleUploadOldResume)
	app.Get("/progress", withSession, h.Progress.HandleProgress)
	app.Get("/download/:filename", withSession, h.Progress.HandleDownload)
}

// ErrorHandler is the fallback for errors returned past the handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}
