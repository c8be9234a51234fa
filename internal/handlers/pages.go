package handlers

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-maker/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type selectPage struct {
	Candidates    []models.CandidateOption
	SkippedSheets []string
}

type uploadResumePage struct {
	Candidate models.CandidateRecord
}

type progressPage struct {
	CandidateID string
}

type errorPage struct {
	Code    int
	Message string
}

// renderPage executes the named template into the response. The status set
// on c before the call is kept.
func renderPage(c *fiber.Ctx, name string, data any) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func candidateOptions(candidates []models.CandidateRecord) []models.CandidateOption {
	options := make([]models.CandidateOption, 0, len(candidates))
	for _, candidate := range candidates {
		options = append(options, models.CandidateOption{
			ID:          candidate.ID,
			DisplayName: candidate.DisplayName(),
		})
	}
	return options
}

// HandleIndex serves the first step of the flow.
func HandleIndex(c *fiber.Ctx) error {
	if !wantsHTML(c) {
		return c.JSON(fiber.Map{
			"message": "Resume Maker API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /upload-skill-matrix",
				"GET /candidates",
				"POST /select-candidate",
				"POST /upload-old-resume",
				"GET /progress?candidate_id=",
				"GET /download/:filename",
				"GET /api/v1/uploads",
			},
		})
	}
	return renderPage(c, "index", nil)
}
