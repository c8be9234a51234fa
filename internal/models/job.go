package models

type JobState string

const (
	JobRunning JobState = "running"
	JobReady   JobState = "ready"
	JobFailed  JobState = "failed"
)

// JobSnapshot is what a client sees when polling a generation job.
type JobSnapshot struct {
	Status   JobState `json:"status"`
	Messages []string `json:"messages"`
	Filename string   `json:"filename,omitempty"`
	Error    string   `json:"error,omitempty"`
}
