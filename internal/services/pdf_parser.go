package services

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

type PDFParserService interface {
	ExtractText(filepath string) (string, error)
	ExtractTextFromBytes(data []byte) (string, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

func (p *pdfParserService) ExtractText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}
	return p.ExtractTextFromBytes(data)
}

// ExtractTextFromBytes returns the plain text of every page in order. Pages
// without extractable text are skipped, so a scanned document yields "".
func (p *pdfParserService) ExtractTextFromBytes(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", NewInvalidInputError("uploaded PDF is empty", nil)
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = NewInvalidInputError("uploaded file is not a valid PDF", fmt.Errorf("%v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", NewInvalidInputError("uploaded file is not a valid PDF", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(pageText) == "" {
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	if strings.TrimSpace(textBuilder.String()) == "" {
		log.Println("⚠️  PDF parsed but contains no extractable text")
		return "", nil
	}

	return textBuilder.String(), nil
}
