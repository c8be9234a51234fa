package models

import (
	"time"

	"github.com/google/uuid"
)

// SkillMatrixUpload archives one ingestion run. Candidates holds the JSON
// encoded []CandidateRecord exactly as it was offered for selection.
type SkillMatrixUpload struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID        string    `gorm:"type:text;index" json:"session_id"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	SheetNames       string    `gorm:"type:text" json:"sheet_names"`
	SkippedSheets    string    `gorm:"type:text" json:"skipped_sheets"`
	CandidateCount   int       `gorm:"not null" json:"candidate_count"`
	Candidates       string    `gorm:"type:jsonb" json:"candidates"`
	CreatedAt        time.Time `json:"created_at"`
}

func (SkillMatrixUpload) TableName() string {
	return "skill_matrix_uploads"
}
