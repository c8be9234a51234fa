package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Category names double as the JSON keys of the competency matrix sent to the
// language model.
const (
	TechnicalCategory  = "Salesforce Technical Competencies and External Systems Integration"
	BehavioralCategory = "Behavioral & Leadership Competencies and Certifications"

	CertifiedMarker = "Certified"
)

// SkillScore is a positive numeric score, or the "Certified" marker for
// certification columns whose cell value is exactly 1.
type SkillScore struct {
	Value     float64
	Certified bool
}

func Score(v float64) SkillScore {
	return SkillScore{Value: v}
}

func Certified() SkillScore {
	return SkillScore{Value: 1, Certified: true}
}

func (s SkillScore) String() string {
	if s.Certified {
		return CertifiedMarker
	}
	return strconv.FormatFloat(s.Value, 'f', -1, 64)
}

func (s SkillScore) MarshalJSON() ([]byte, error) {
	if s.Certified {
		return json.Marshal(CertifiedMarker)
	}
	return json.Marshal(s.Value)
}

func (s *SkillScore) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*s = Score(v)
	case string:
		if v != CertifiedMarker {
			return fmt.Errorf("invalid skill score %q", v)
		}
		*s = Certified()
	default:
		return fmt.Errorf("invalid skill score %s", string(data))
	}
	return nil
}

// CandidateRecord is one person extracted from a skill matrix. Experience and
// Expertise hold a float64, a string, or "" when the cell was absent.
type CandidateRecord struct {
	ID                     string                `json:"ID"`
	SheetName              string                `json:"Sheet Name"`
	FirstName              string                `json:"First Name"`
	LastName               string                `json:"Last Name"`
	Experience             any                   `json:"Experience"`
	Expertise              any                   `json:"Expertise"`
	TechnicalCompetencies  map[string]SkillScore `json:"Salesforce Technical Competencies and External Systems Integration"`
	BehavioralCompetencies map[string]SkillScore `json:"Behavioral & Leadership Competencies and Certifications"`
}

func (c CandidateRecord) FullName() string {
	return c.FirstName + " " + c.LastName
}

// DisplayName is the label shown in candidate pickers.
func (c CandidateRecord) DisplayName() string {
	return fmt.Sprintf("%s - %s", c.ID, c.FullName())
}
