package services

import (
	"sync"

	"alfredoptarigan/resume-maker/internal/models"
)

// PlaceholderMessage is reported for a job that has not logged anything yet.
const PlaceholderMessage = "Processing..."

// Pipeline milestones, in the order they are logged.
const (
	MsgStarting         = "Starting resume generation..."
	MsgCallingLLM       = "Calling LLM to reformat resume..."
	MsgReformatComplete = "LLM reformatting complete."
	MsgGeneratingPDF    = "Generating PDF resume with cover letter..."
	MsgPDFComplete      = "PDF generation complete."
)

type jobEntry struct {
	state    models.JobState
	messages []string
	filename string
	err      string
}

// JobTracker holds the progress of generation jobs keyed by candidate ID.
// A job moves from running to either ready or failed.
type JobTracker struct {
	mu   sync.RWMutex
	jobs map[string]*jobEntry
}

func NewJobTracker() *JobTracker {
	return &JobTracker{jobs: make(map[string]*jobEntry)}
}

// Start registers a new running job. A finished job under the same key is
// replaced; a running one is left alone and ErrJobAlreadyRunning returned.
func (t *JobTracker) Start(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry, ok := t.jobs[key]; ok && entry.state == models.JobRunning {
		return ErrJobAlreadyRunning
	}
	t.jobs[key] = &jobEntry{state: models.JobRunning}
	return nil
}

func (t *JobTracker) Append(key, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry, ok := t.jobs[key]; ok && entry.state == models.JobRunning {
		entry.messages = append(entry.messages, message)
	}
}

func (t *JobTracker) Complete(key, filename string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry, ok := t.jobs[key]; ok && entry.state == models.JobRunning {
		entry.state = models.JobReady
		entry.filename = filename
	}
}

func (t *JobTracker) Fail(key string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry, ok := t.jobs[key]; ok && entry.state == models.JobRunning {
		entry.state = models.JobFailed
		entry.err = err.Error()
	}
}

func (t *JobTracker) Snapshot(key string) models.JobSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entry, ok := t.jobs[key]
	if !ok {
		return models.JobSnapshot{Status: models.JobRunning, Messages: []string{PlaceholderMessage}}
	}

	snapshot := models.JobSnapshot{
		Status:   entry.state,
		Filename: entry.filename,
		Error:    entry.err,
	}
	if len(entry.messages) == 0 {
		snapshot.Messages = []string{PlaceholderMessage}
	} else {
		snapshot.Messages = append([]string(nil), entry.messages...)
	}
	return snapshot
}

func (t *JobTracker) HasRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, entry := range t.jobs {
		if entry.state == models.JobRunning {
			return true
		}
	}
	return false
}
