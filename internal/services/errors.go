package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrJobAlreadyRunning = errors.New("a resume is already being generated for this candidate")
	ErrQueueFull         = errors.New("generation queue is full, try again later")
	ErrWorkerStopped     = errors.New("worker is stopped")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrNoCandidate       = errors.New("no candidate selected")
)

// InvalidInputError reports an upload that is empty or cannot be parsed.
type InvalidInputError struct {
	Message string
	Err     error
}

func NewInvalidInputError(message string, err error) *InvalidInputError {
	return &InvalidInputError{Message: message, Err: err}
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// UpstreamServiceError reports a failed call to the hosted language model.
// StatusCode is zero when the request never got a response.
type UpstreamServiceError struct {
	Service    string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamServiceError) Error() string {
	var b strings.Builder
	b.WriteString(e.Service)
	b.WriteString(" request failed")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " with status %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *UpstreamServiceError) Unwrap() error { return e.Err }

// SchemaViolationError reports a model reply that is not valid JSON or does
// not match the structured résumé schema.
type SchemaViolationError struct {
	Violations []string
	Err        error
}

func (e *SchemaViolationError) Error() string {
	if len(e.Violations) > 0 {
		return "model reply violates resume schema: " + strings.Join(e.Violations, "; ")
	}
	if e.Err != nil {
		return fmt.Sprintf("model reply is not valid JSON: %v", e.Err)
	}
	return "model reply violates resume schema"
}

func (e *SchemaViolationError) Unwrap() error { return e.Err }

// RenderError reports a missing font or a failed PDF write.
type RenderError struct {
	Message string
	Err     error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render failed: %s: %v", e.Message, e.Err)
	}
	return "render failed: " + e.Message
}

func (e *RenderError) Unwrap() error { return e.Err }
