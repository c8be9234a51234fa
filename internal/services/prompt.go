package services

import (
	"fmt"

	"alfredoptarigan/resume-maker/internal/models"
)

const (
	reformatSystemPrompt = `You are an AI assistant that reformats resumes into a structured JSON format.
Take the competency matrix and old resume as input, extract relevant details, and map them to the new resume format.
Only respond with the new resume format as a JSON object that adheres strictly to the provided JSON Schema. Do not include any extra messages.`

	coverLetterSystemPrompt = "You are an AI assistant that generates a professional cover letter."
)

// ResumeFormatExample shows the model the target document shape.
const ResumeFormatExample = `{
    "first_name": "Firstname here",
    "last_name": "Last Name Here",
    "role": "Role Here",
    "professional_summary": "Professional summary here...",
    "education": "Education Degree with course Details here...",
    "skills": "Skills here...(Separate it with comma)",
    "projects": [
        {
            "name": "Project1",
            "description": "Developed a web application for...",
            "role": "Lead Developer",
            "technology": "Python, Django, PostgreSQL",
            "role_played": "Designed architecture and led the team."
        },
        {
            "name": "Project2",
            "description": "Mobile app for task management.",
            "role": "Full Stack Developer",
            "technology": "React Native, Node.js",
            "role_played": "Implemented frontend and backend features."
        }
    ]
}`

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildReformatPrompt creates the user message for the resume reformat call
func (pb *PromptBuilder) BuildReformatPrompt(competencyMatrix, resumeText, format string) string {
	return fmt.Sprintf(`Competency Matrix:
%s

Resume:
%s

Convert this into the following structured format:
%s`, competencyMatrix, resumeText, format)
}

// BuildCoverLetterPrompt creates the user message for the cover letter call
func (pb *PromptBuilder) BuildCoverLetterPrompt(resume models.StructuredResume) string {
	return fmt.Sprintf(`Generate a professional cover letter for a job application using the following resume details:

Name: %s %s
Role: %s
Professional Summary: %s
Education: %s
Skills: %s

Cover Letter:`,
		resume.FirstName, resume.LastName,
		resume.Role,
		resume.ProfessionalSummary,
		resume.Education,
		resume.Skills)
}
