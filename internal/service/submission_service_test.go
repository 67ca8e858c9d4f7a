package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/time/rate"

	"github.com/mtlprog/internfinder/internal/domain"
	"github.com/mtlprog/internfinder/internal/service"
)

// fakeRecommender records calls and answers with a canned response.
type fakeRecommender struct {
	mu       sync.Mutex
	calls    []domain.FormPayload
	response *domain.RecommendationResponse
	err      error
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeRecommender) Recommend(ctx context.Context, payload domain.FormPayload) (*domain.RecommendationResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, payload)
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.response, f.err
}

func (f *fakeRecommender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// SubmissionServiceTestSuite is the test suite for SubmissionService.
type SubmissionServiceTestSuite struct {
	suite.Suite
	recommender *fakeRecommender
	service     *service.SubmissionService
	transitions []service.Status
	mu          sync.Mutex
}

func (s *SubmissionServiceTestSuite) SetupTest() {
	s.recommender = &fakeRecommender{
		response: &domain.RecommendationResponse{
			Success: true,
			Message: "Found 1 matching internships",
			Recommendations: []domain.Recommendation{
				{Title: "Python Development", Company: "DevCorp"},
			},
		},
	}
	s.service = service.NewSubmissionService(s.recommender)
	s.transitions = nil
	s.service.OnStatusChange(func(st service.Status) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.transitions = append(s.transitions, st)
	})
}

func TestSubmissionServiceSuite(t *testing.T) {
	suite.Run(t, new(SubmissionServiceTestSuite))
}

func validInput() domain.FormInput {
	return domain.FormInput{
		Education:          "Computer Science",
		LocationPreference: "Work From Home",
		Stipend:            "10000",
		Skills:             []string{"Python", "Data Science"},
	}
}

func (s *SubmissionServiceTestSuite) requireSubmissionError(err error, kind domain.ErrorKind, message string) *domain.SubmissionError {
	var subErr *domain.SubmissionError
	s.Require().ErrorAs(err, &subErr)
	s.Equal(kind, subErr.Kind)
	s.Equal(message, subErr.Message)
	return subErr
}

func (s *SubmissionServiceTestSuite) TestSubmit_Success() {
	result, err := s.service.Submit(context.Background(), validInput())
	s.Require().NoError(err)

	s.Len(result.Recommendations, 1)
	s.Equal("DevCorp", result.Recommendations[0].Company)
	s.Equal(10000, result.Payload.MinStipend)

	s.Require().Equal(1, s.recommender.callCount())
	s.Equal([]string{"Python", "Data Science"}, s.recommender.calls[0].Skills)

	s.Equal([]service.Status{
		service.StatusValidating,
		service.StatusSubmitting,
		service.StatusSucceeded,
		service.StatusIdle,
	}, s.transitions)
	s.Equal(service.StatusIdle, s.service.Status())
}

func (s *SubmissionServiceTestSuite) TestSubmit_ValidationOrder() {
	tests := []struct {
		name    string
		input   domain.FormInput
		wantErr error
		message string
	}{
		{
			name:    "everything missing reports education first",
			input:   domain.FormInput{},
			wantErr: domain.ErrMissingEducation,
			message: "Please select your education field",
		},
		{
			name:    "no skills",
			input:   domain.FormInput{Education: "Civil", LocationPreference: "Pune"},
			wantErr: domain.ErrNoSkillsSelected,
			message: "Please select at least one skill from the updated list",
		},
		{
			name:    "skills and location missing reports skills",
			input:   domain.FormInput{Education: "Civil"},
			wantErr: domain.ErrNoSkillsSelected,
			message: "Please select at least one skill from the updated list",
		},
		{
			name:    "no location",
			input:   domain.FormInput{Education: "Civil", Skills: []string{"BIM"}},
			wantErr: domain.ErrMissingLocation,
			message: "Please select your preferred work location",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.Submit(context.Background(), tt.input)
			s.ErrorIs(err, tt.wantErr)
			s.requireSubmissionError(err, domain.KindValidation, tt.message)
		})
	}

	s.Zero(s.recommender.callCount(), "validation failures never reach the network")
	s.Equal(service.StatusIdle, s.service.Status())
}

func (s *SubmissionServiceTestSuite) TestSubmit_EmptyRecommendationsIsFailure() {
	s.recommender.response = &domain.RecommendationResponse{Success: true}

	_, err := s.service.Submit(context.Background(), validInput())
	s.ErrorIs(err, domain.ErrNoRecommendations)
	s.requireSubmissionError(err, domain.KindAPI, "No recommendations found")

	s.Equal(service.StatusFailed, s.transitions[len(s.transitions)-2])
	s.Equal(service.StatusIdle, s.service.Status())
}

func (s *SubmissionServiceTestSuite) TestSubmit_ServerMessageOnFailure() {
	s.recommender.response = &domain.RecommendationResponse{
		Success: false,
		Message: "System not initialized properly",
	}

	_, err := s.service.Submit(context.Background(), validInput())
	s.requireSubmissionError(err, domain.KindAPI, "System not initialized properly")
}

func (s *SubmissionServiceTestSuite) TestSubmit_APIError() {
	s.recommender.err = &domain.APIError{StatusCode: 500, Body: "Internal Server Error"}

	_, err := s.service.Submit(context.Background(), validInput())
	subErr := s.requireSubmissionError(err, domain.KindAPI,
		"Failed to get recommendations: HTTP error! status: 500 - Internal Server Error")

	var apiErr *domain.APIError
	s.Require().ErrorAs(subErr, &apiErr)
	s.Equal(500, apiErr.StatusCode)
}

func (s *SubmissionServiceTestSuite) TestSubmit_TransportError() {
	s.recommender.err = errors.New("dial tcp 127.0.0.1:5000: connect: connection refused")

	_, err := s.service.Submit(context.Background(), validInput())
	s.requireSubmissionError(err, domain.KindTransport,
		"Failed to get recommendations: dial tcp 127.0.0.1:5000: connect: connection refused")
	s.Equal(service.StatusIdle, s.service.Status())
}

func (s *SubmissionServiceTestSuite) TestSubmit_RejectsConcurrentSubmission() {
	s.recommender.started = make(chan struct{})
	s.recommender.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := s.service.Submit(context.Background(), validInput())
		done <- err
	}()

	select {
	case <-s.recommender.started:
	case <-time.After(2 * time.Second):
		s.FailNow("first submission never reached the recommender")
	}
	s.True(s.service.Status().Busy())

	_, err := s.service.Submit(context.Background(), validInput())
	s.ErrorIs(err, domain.ErrSubmissionInFlight)
	s.Equal(1, s.recommender.callCount(), "second attempt issues no request")

	close(s.recommender.release)
	s.NoError(<-done)

	// The guard is released once the first submission finishes.
	s.recommender.started = nil
	s.recommender.release = nil
	_, err = s.service.Submit(context.Background(), validInput())
	s.NoError(err)
	s.Equal(2, s.recommender.callCount())
}

func (s *SubmissionServiceTestSuite) TestSubmit_LimiterSpendsOnlyValidSubmissions() {
	limited := service.NewSubmissionService(s.recommender, service.WithLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)))

	for i := 0; i < 3; i++ {
		_, err := limited.Submit(context.Background(), domain.FormInput{Education: "Civil"})
		s.ErrorIs(err, domain.ErrNoSkillsSelected)
	}

	_, err := limited.Submit(context.Background(), validInput())
	s.Require().NoError(err)

	_, err = limited.Submit(context.Background(), validInput())
	s.ErrorIs(err, domain.ErrRateLimited)
	s.Equal(1, s.recommender.callCount())
	s.Equal(service.StatusIdle, limited.Status())
}

func (s *SubmissionServiceTestSuite) TestStatusBusy() {
	s.True(service.StatusValidating.Busy())
	s.True(service.StatusSubmitting.Busy())
	s.False(service.StatusIdle.Busy())
	s.False(service.StatusFailed.Busy())
	s.False(service.StatusSucceeded.Busy())
}
