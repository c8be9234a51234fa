package models

// StructuredResume is the reformatted résumé returned by the language model.
type StructuredResume struct {
	FirstName           string         `json:"first_name"`
	LastName            string         `json:"last_name"`
	Role                string         `json:"role"`
	ProfessionalSummary string         `json:"professional_summary"`
	Education           string         `json:"education"`
	Skills              string         `json:"skills"`
	Projects            []ProjectEntry `json:"projects"`
}

type ProjectEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Role        string `json:"role"`
	Technology  string `json:"technology"`
	RolePlayed  string `json:"role_played"`
}

func (r StructuredResume) FullName() string {
	return r.FirstName + " " + r.LastName
}
