package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/internfinder/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
// Messages are the ones shown to visitors.
func MapDomainError(err error) (status int, code string, message string) {
	message = domain.UserMessage(err)

	var subErr *domain.SubmissionError
	switch {
	// Validation errors
	case errors.Is(err, domain.ErrMissingEducation),
		errors.Is(err, domain.ErrNoSkillsSelected),
		errors.Is(err, domain.ErrMissingLocation),
		errors.Is(err, domain.ErrUnknownEducationField):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrMissingApplyTarget):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error()

	// Submission errors
	case errors.Is(err, domain.ErrSubmissionInFlight):
		return http.StatusConflict, "SUBMISSION_IN_FLIGHT", message
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED", message

	// Recommendation API errors
	case errors.Is(err, domain.ErrNoRecommendations):
		return http.StatusNotFound, "NO_RECOMMENDATIONS", message
	case errors.As(err, &subErr) && subErr.Kind != domain.KindValidation:
		return http.StatusBadGateway, "UPSTREAM_ERROR", message

	// Session errors
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, "SESSION_REQUIRED", err.Error()

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
