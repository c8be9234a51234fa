package services

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/resume-maker/internal/models"
)

// MaxCandidates caps a single ingestion run across all sheets.
const MaxCandidates = 62

var numericNamePattern = regexp.MustCompile(`^\d+(\.\d+)?%?$`)

type SkillMatrixIngestor interface {
	Ingest(data []byte) (*IngestResult, error)
}

type IngestResult struct {
	Candidates    []models.CandidateRecord `json:"candidates"`
	Sheets        []string                 `json:"sheets"`
	SkippedSheets []string                 `json:"skipped_sheets,omitempty"`
}

type skillMatrixIngestor struct{}

func NewSkillMatrixIngestor() SkillMatrixIngestor {
	return &skillMatrixIngestor{}
}

type columnCategory int

const (
	categoryNone columnCategory = iota
	categoryTechnical
	categoryBehavioral
)

type nameKey struct {
	first string
	last  string
}

// cell is a spreadsheet value read with its raw (unformatted) content.
type cell struct {
	text  string
	num   float64
	isNum bool
}

// parseCell reads raw as a number unless the workbook stored it as text.
func parseCell(raw string, stored excelize.CellType) cell {
	c := cell{text: raw}
	if raw == "" || !isNumericCellType(stored) {
		return c
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		c.num = v
		c.isNum = true
	}
	return c
}

// isNumericCellType reports whether a stored cell type holds a number. Cells
// without a type attribute are numeric in SpreadsheetML.
func isNumericCellType(t excelize.CellType) bool {
	return t == excelize.CellTypeUnset || t == excelize.CellTypeNumber
}

// sheetRows is a worksheet as raw text, row by row from the first row, with
// the stored type of every non-empty cell.
type sheetRows struct {
	values [][]string
	types  [][]excelize.CellType
}

func (r sheetRows) typeAt(row, col int) excelize.CellType {
	if row < len(r.types) && col < len(r.types[row]) {
		return r.types[row][col]
	}
	return excelize.CellTypeUnset
}

// readSheetRows loads one worksheet. It is a variable so tests can make a
// single sheet fail.
var readSheetRows = func(f *excelize.File, sheet string) (sheetRows, error) {
	values, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return sheetRows{}, err
	}

	types := make([][]excelize.CellType, len(values))
	for r, row := range values {
		types[r] = make([]excelize.CellType, len(row))
		for c, raw := range row {
			if raw == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return sheetRows{}, err
			}
			if types[r][c], err = f.GetCellType(sheet, ref); err != nil {
				return sheetRows{}, err
			}
		}
	}
	return sheetRows{values: values, types: types}, nil
}

func (c cell) scalar() any {
	if c.isNum {
		return c.num
	}
	return c.text
}

// sheetTable is one worksheet with a header row and padded data rows.
type sheetTable struct {
	name    string
	columns []string
	rows    [][]cell
}

type ingestState struct {
	candidates []models.CandidateRecord
	seen       map[nameKey]struct{}
}

func (s *ingestState) full() bool {
	return len(s.candidates) >= MaxCandidates
}

func (i *skillMatrixIngestor) Ingest(data []byte) (*IngestResult, error) {
	if len(data) == 0 {
		return nil, NewInvalidInputError("uploaded file is empty, please upload a valid Excel (.xlsx) file", nil)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, NewInvalidInputError("uploaded file is not a valid Excel (.xlsx) file", err)
	}
	defer f.Close()

	result := &IngestResult{Sheets: f.GetSheetList()}
	state := &ingestState{seen: make(map[nameKey]struct{})}

	for _, sheet := range result.Sheets {
		if state.full() {
			break
		}
		if err := i.ingestSheet(f, sheet, state); err != nil {
			log.Printf("⚠️  Skipping sheet %q: %v\n", sheet, err)
			result.SkippedSheets = append(result.SkippedSheets, sheet)
		}
	}

	result.Candidates = state.candidates
	log.Printf("📊 Ingested %d candidates from %d sheets\n", len(result.Candidates), len(result.Sheets))
	return result, nil
}

func (i *skillMatrixIngestor) ingestSheet(f *excelize.File, sheet string, state *ingestState) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while reading sheet: %v", r)
		}
	}()

	rows, err := readSheetRows(f, sheet)
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}

	table := buildTable(sheet, rows)
	if len(table.columns) < 2 {
		return nil
	}

	categories := classifyColumns(table.columns)
	for _, row := range table.rows {
		if state.full() {
			return nil
		}
		record, ok := buildCandidate(table, categories, row)
		if !ok {
			continue
		}
		key := nameKey{first: record.FirstName, last: record.LastName}
		if _, dup := state.seen[key]; dup {
			continue
		}
		state.seen[key] = struct{}{}
		record.ID = fmt.Sprintf("Role_%d", len(state.candidates)+1)
		state.candidates = append(state.candidates, record)
	}
	return nil
}

// buildTable turns raw rows into a header plus data rows. Blank headers are
// named "Unnamed: <i>", repeated headers get ".1", ".2" suffixes and rows with
// no values at all are dropped.
func buildTable(sheet string, rows sheetRows) sheetTable {
	rawRows := rows.values
	table := sheetTable{name: sheet}
	if len(rawRows) == 0 {
		return table
	}

	width := 0
	for _, r := range rawRows {
		if len(r) > width {
			width = len(r)
		}
	}

	table.columns = headerNames(rawRows[0], width)

	for i, r := range rawRows[1:] {
		row := make([]cell, width)
		empty := true
		for idx := 0; idx < width; idx++ {
			raw := ""
			if idx < len(r) {
				raw = r[idx]
			}
			if strings.TrimSpace(raw) != "" {
				empty = false
			}
			row[idx] = parseCell(raw, rows.typeAt(i+1, idx))
		}
		if !empty {
			table.rows = append(table.rows, row)
		}
	}
	return table
}

func headerNames(header []string, width int) []string {
	names := make([]string, width)
	used := make(map[string]int, width)
	for idx := 0; idx < width; idx++ {
		name := ""
		if idx < len(header) {
			name = strings.TrimSpace(header[idx])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", idx)
		}
		if n, dup := used[name]; dup {
			base := name
			for {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
				if _, taken := used[name]; !taken {
					break
				}
			}
			used[base] = n
		}
		used[name] = 0
		names[idx] = name
	}
	return names
}

func isSummaryColumn(header string) bool {
	return strings.Contains(header, "%") ||
		strings.Contains(header, "Current Capability Score") ||
		strings.Contains(header, "Expertise(Years)")
}

// classifyColumns folds over the headers once and tags every skill column
// with the category that was open when it was reached. Columns 0-3 hold the
// identity fields and are never tagged.
func classifyColumns(columns []string) []columnCategory {
	tags := make([]columnCategory, len(columns))
	current := categoryNone
	for idx := 4; idx < len(columns); idx++ {
		header := columns[idx]
		switch {
		case isSummaryColumn(header):
			continue
		case strings.Contains(header, "Salesforce Technical Competencies"),
			strings.Contains(header, "External Systems Integration"):
			current = categoryTechnical
		case strings.Contains(header, "Behavioral & Leadership Competencies"),
			strings.Contains(header, "SF Certification"):
			current = categoryBehavioral
		}
		tags[idx] = current
	}
	return tags
}

func buildCandidate(table sheetTable, categories []columnCategory, row []cell) (models.CandidateRecord, bool) {
	first := strings.TrimSpace(row[0].text)
	last := strings.TrimSpace(row[1].text)
	if first == "" || last == "" {
		return models.CandidateRecord{}, false
	}
	if numericNamePattern.MatchString(first) || numericNamePattern.MatchString(last) {
		return models.CandidateRecord{}, false
	}

	record := models.CandidateRecord{
		SheetName:              table.name,
		FirstName:              first,
		LastName:               last,
		Experience:             "",
		Expertise:              "",
		TechnicalCompetencies:  map[string]models.SkillScore{},
		BehavioralCompetencies: map[string]models.SkillScore{},
	}
	if len(row) > 2 {
		record.Experience = row[2].scalar()
	}
	if len(row) > 3 {
		record.Expertise = row[3].scalar()
	}

	hasSkills := false
	for idx, category := range categories {
		if category == categoryNone {
			continue
		}
		c := row[idx]
		if !c.isNum || c.num <= 0 {
			continue
		}
		hasSkills = true
		skill := table.columns[idx]
		switch category {
		case categoryTechnical:
			record.TechnicalCompetencies[skill] = models.Score(c.num)
		case categoryBehavioral:
			if c.num == 1 {
				record.BehavioralCompetencies[skill] = models.Certified()
			} else {
				record.BehavioralCompetencies[skill] = models.Score(c.num)
			}
		}
	}
	if !hasSkills {
		return models.CandidateRecord{}, false
	}
	return record, true
}
