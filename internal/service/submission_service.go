package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/mtlprog/internfinder/internal/domain"
)

// Status is the state of the submission flow.
type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusValidating Status = "VALIDATING"
	StatusSubmitting Status = "SUBMITTING"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
)

// Busy reports whether the submit control should be disabled.
func (s Status) Busy() bool {
	return s == StatusValidating || s == StatusSubmitting
}

// Recommender fetches recommendations for a payload.
type Recommender interface {
	Recommend(ctx context.Context, payload domain.FormPayload) (*domain.RecommendationResponse, error)
}

// Result is a successful submission.
type Result struct {
	Payload         domain.FormPayload
	Recommendations []domain.Recommendation
	Message         string
}

// SubmissionService runs the form submission flow. At most one submission is
// outstanding at a time; concurrent attempts are rejected without I/O.
type SubmissionService struct {
	recommender Recommender
	validator   *Validator
	inFlight    *semaphore.Weighted
	limiter     *rate.Limiter

	mu        sync.Mutex
	status    Status
	observers []func(Status)
}

// SubmissionOption configures a SubmissionService.
type SubmissionOption func(*SubmissionService)

// WithLimiter spends one token of l per valid submission. Invalid input does
// not consume the budget.
func WithLimiter(l *rate.Limiter) SubmissionOption {
	return func(s *SubmissionService) {
		s.limiter = l
	}
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(recommender Recommender, opts ...SubmissionOption) *SubmissionService {
	s := &SubmissionService{
		recommender: recommender,
		validator:   NewValidator(),
		inFlight:    semaphore.NewWeighted(1),
		status:      StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnStatusChange registers fn to be called on every transition.
func (s *SubmissionService) OnStatusChange(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Status returns the current flow state.
func (s *SubmissionService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *SubmissionService) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	observers := make([]func(Status), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(status)
	}
}

// Submit validates the form input and, if valid, requests recommendations.
// Failures are returned as *domain.SubmissionError carrying the visitor
// message; a concurrent call returns domain.ErrSubmissionInFlight.
func (s *SubmissionService) Submit(ctx context.Context, input domain.FormInput) (result *Result, err error) {
	if !s.inFlight.TryAcquire(1) {
		slog.Debug("submission rejected, already processing")
		return nil, domain.ErrSubmissionInFlight
	}
	defer s.inFlight.Release(1)

	defer func() {
		if err != nil {
			s.setStatus(StatusFailed)
			slog.Warn("submission failed", "error", err)
		} else {
			s.setStatus(StatusSucceeded)
		}
		s.setStatus(StatusIdle)
	}()

	s.setStatus(StatusValidating)
	payload := input.Payload()
	if err := s.validator.ValidatePayload(payload); err != nil {
		return nil, err
	}
	if s.limiter != nil && !s.limiter.Allow() {
		return nil, domain.ErrRateLimited
	}

	s.setStatus(StatusSubmitting)
	slog.Info("requesting recommendations",
		"education", payload.Education,
		"skills_count", len(payload.Skills),
		"location_preference", payload.LocationPreference,
		"min_stipend", payload.MinStipend,
	)

	resp, err := s.recommender.Recommend(ctx, payload)
	if err != nil {
		return nil, requestError(err)
	}

	if !resp.Success || len(resp.Recommendations) == 0 {
		message := resp.Message
		if message == "" {
			message = "No recommendations found"
		}
		return nil, &domain.SubmissionError{
			Kind:    domain.KindAPI,
			Message: message,
			Err:     domain.ErrNoRecommendations,
		}
	}

	slog.Info("recommendations received", "count", len(resp.Recommendations))

	return &Result{
		Payload:         payload,
		Recommendations: resp.Recommendations,
		Message:         resp.Message,
	}, nil
}

// requestError classifies a failed API call.
func requestError(err error) error {
	kind := domain.KindTransport
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) || errors.Is(err, domain.ErrMalformedResponse) {
		kind = domain.KindAPI
	}

	return &domain.SubmissionError{
		Kind:    kind,
		Message: fmt.Sprintf("Failed to get recommendations: %s", err.Error()),
		Err:     err,
	}
}
