package models

type CandidateOption struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type SkillMatrixResponse struct {
	SessionID     string            `json:"session_id"`
	Candidates    []CandidateOption `json:"candidates"`
	SkippedSheets []string          `json:"skipped_sheets,omitempty"`
}

type SelectCandidateRequest struct {
	CandidateID string `json:"candidate_id" form:"candidate_id" validate:"required,max=64"`
}

type SelectCandidateResponse struct {
	Candidate CandidateRecord `json:"candidate"`
}

type GenerateResponse struct {
	CandidateID string   `json:"candidate_id"`
	Status      JobState `json:"status"`
	ProgressURL string   `json:"progress_url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
