package domain

import (
	"errors"
	"fmt"
)

// Domain-specific errors for form handling and the recommendation API.
var (
	// Validation errors
	ErrMissingEducation = errors.New("education field is required")
	ErrNoSkillsSelected = errors.New("at least one skill is required")
	ErrMissingLocation  = errors.New("location preference is required")

	// Selection errors
	ErrUnknownEducationField = errors.New("unknown education field")

	// Submission errors
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrRateLimited        = errors.New("too many submissions")

	// Recommendation API errors
	ErrMalformedResponse = errors.New("malformed recommendation response")
	ErrNoRecommendations = errors.New("no recommendations found")

	// Form schema errors
	ErrMissingFormField = errors.New("required form field missing from page")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Apply errors
	ErrMissingApplyTarget = errors.New("title and company are required")
)

// APIError is returned when the recommendation API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d - %s", e.StatusCode, e.Body)
}

// ErrorKind classifies submission failures.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindAPI        ErrorKind = "api"
	KindTransport  ErrorKind = "transport"
)

// SubmissionError carries the user-facing message of a failed submission
// alongside the underlying cause.
type SubmissionError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text shown to the visitor for err.
func UserMessage(err error) string {
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		return subErr.Message
	}
	switch {
	case errors.Is(err, ErrSubmissionInFlight):
		return "Already processing your request..."
	case errors.Is(err, ErrRateLimited):
		return "Too many requests. Please wait a moment and try again."
	case errors.Is(err, ErrUnknownEducationField):
		return "Please choose an education field from the list"
	default:
		return "An error occurred. Please try again."
	}
}
