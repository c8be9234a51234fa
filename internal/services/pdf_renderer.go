package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"alfredoptarigan/resume-maker/internal/models"
)

const (
	fontFamily      = "DejaVu"
	regularFontFile = "DejaVuSans.ttf"
	boldFontFile    = "DejaVuSans-Bold.ttf"
	logoName        = "logo"
)

// Layout in millimetres on an A4 page.
const (
	logoX             = 170.0
	logoY             = 10.0
	logoWidth         = 30.0
	bodyStartY        = 45.0
	lineHeight        = 10.0
	wrappedLineHeight = 5.0
)

type PDFRenderer interface {
	Render(ctx context.Context, resume models.StructuredResume) (string, error)
}

type pdfRenderer struct {
	coverLetters CoverLetterGenerator
	storage      StorageService
	fontDir      string
	logoPath     string
}

func NewPDFRenderer(coverLetters CoverLetterGenerator, storage StorageService, fontDir, logoPath string) PDFRenderer {
	return &pdfRenderer{
		coverLetters: coverLetters,
		storage:      storage,
		fontDir:      fontDir,
		logoPath:     logoPath,
	}
}

// ResumeFilename is the output name for a resume. Two resumes for the same
// person share a name and the later one wins.
func ResumeFilename(resume models.StructuredResume) string {
	return fmt.Sprintf("%s_%s_Resume.pdf",
		SanitizeFilenamePart(resume.FirstName),
		SanitizeFilenamePart(resume.LastName))
}

// Render lays out the resume, asks for a cover letter, appends it on its own
// page and saves the document. It returns the saved file name.
func (p *pdfRenderer) Render(ctx context.Context, resume models.StructuredResume) (string, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	if err := p.registerFonts(doc); err != nil {
		return "", err
	}

	doc.AddPage()
	if p.placeLogo(doc) {
		doc.SetY(bodyStartY)
	}

	doc.SetFont(fontFamily, "B", 16)
	doc.CellFormat(0, lineHeight, resume.FullName(), "", 1, "C", false, 0, "")
	doc.SetFont(fontFamily, "B", 14)
	doc.CellFormat(0, lineHeight, resume.Role, "", 1, "C", false, 0, "")

	sections := []struct {
		title string
		body  string
	}{
		{"PROFESSIONAL SUMMARY", resume.ProfessionalSummary},
		{"EDUCATION", resume.Education},
		{"SKILLS", resume.Skills},
	}
	for _, section := range sections {
		doc.Ln(lineHeight)
		doc.SetFont(fontFamily, "B", 12)
		doc.CellFormat(0, lineHeight, section.title, "", 1, "", false, 0, "")
		doc.SetFont(fontFamily, "", 12)
		doc.MultiCell(0, wrappedLineHeight, section.body, "", "", false)
	}

	doc.Ln(lineHeight)
	doc.SetFont(fontFamily, "B", 12)
	doc.CellFormat(0, lineHeight, "PROJECT DETAILS", "", 1, "", false, 0, "")
	for _, project := range resume.Projects {
		doc.Ln(5)
		doc.SetFont(fontFamily, "B", 12)
		doc.CellFormat(0, lineHeight, project.Name, "", 1, "", false, 0, "")
		doc.SetFont(fontFamily, "", 12)
		doc.MultiCell(0, wrappedLineHeight, project.Description, "", "", false)
		doc.CellFormat(0, wrappedLineHeight, "Role: "+project.Role, "", 1, "", false, 0, "")
		doc.CellFormat(0, wrappedLineHeight, "Technology: "+project.Technology, "", 1, "", false, 0, "")
		doc.CellFormat(0, wrappedLineHeight, "Role Played: "+project.RolePlayed, "", 1, "", false, 0, "")
		doc.Ln(5)
	}

	letter, err := p.coverLetters.Generate(ctx, resume)
	if err != nil {
		return "", err
	}

	doc.AddPage()
	doc.SetFont(fontFamily, "B", 16)
	doc.CellFormat(0, lineHeight, "COVER LETTER", "", 1, "C", false, 0, "")
	doc.Ln(lineHeight)
	doc.SetFont(fontFamily, "", 12)
	doc.MultiCell(0, wrappedLineHeight, letter, "", "", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return "", &RenderError{Message: "failed to write PDF", Err: err}
	}

	filename := ResumeFilename(resume)
	if _, err := p.storage.Save(filename, buf.Bytes()); err != nil {
		return "", &RenderError{Message: "failed to store PDF", Err: err}
	}

	log.Printf("📄 Rendered %s (%d bytes)\n", filename, buf.Len())
	return filename, nil
}

func (p *pdfRenderer) registerFonts(doc *fpdf.Fpdf) (err error) {
	// The TrueType parser can panic on truncated files.
	defer func() {
		if r := recover(); r != nil {
			err = &RenderError{Message: "invalid font in " + p.fontDir, Err: fmt.Errorf("%v", r)}
		}
	}()

	fonts := []struct {
		style string
		file  string
	}{
		{"", regularFontFile},
		{"B", boldFontFile},
	}
	for _, font := range fonts {
		path := filepath.Join(p.fontDir, font.file)
		data, err := os.ReadFile(path)
		if err != nil {
			return &RenderError{Message: "missing font " + path, Err: err}
		}
		doc.AddUTF8FontFromBytes(fontFamily, font.style, data)
		if err := doc.Error(); err != nil {
			return &RenderError{Message: "invalid font " + path, Err: err}
		}
	}
	return nil
}

// placeLogo draws the logo in the top-right corner of the current page. Any
// problem with the logo file leaves the page without it.
func (p *pdfRenderer) placeLogo(doc *fpdf.Fpdf) bool {
	if p.logoPath == "" {
		return false
	}

	data, err := os.ReadFile(p.logoPath)
	if err != nil {
		log.Printf("ℹ️  Logo not loaded: %v\n", err)
		return false
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Printf("ℹ️  Logo not loaded: %v\n", err)
		return false
	}

	imageType := "PNG"
	if format == "jpeg" {
		imageType = "JPG"
	}
	options := fpdf.ImageOptions{ImageType: imageType, ReadDpi: true}

	doc.RegisterImageOptionsReader(logoName, options, bytes.NewReader(data))
	if err := doc.Error(); err != nil {
		log.Printf("ℹ️  Logo not loaded: %v\n", err)
		doc.ClearError()
		return false
	}

	doc.ImageOptions(logoName, logoX, logoY, logoWidth, 0, false, options, 0, "")
	return true
}
