package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/internfinder/internal/apply"
	"github.com/mtlprog/internfinder/internal/catalog"
	"github.com/mtlprog/internfinder/internal/domain"
	"github.com/mtlprog/internfinder/internal/repository"
)

type nopRecommender struct{}

func (nopRecommender) Recommend(context.Context, domain.FormPayload) (*domain.RecommendationResponse, error) {
	return &domain.RecommendationResponse{Success: true}, nil
}

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type SessionRepositoryTestSuite struct {
	suite.Suite
	clock *fakeClock
	repo  *repository.SessionRepository
	ctx   context.Context
}

func (s *SessionRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = &fakeClock{now: time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)}
	s.repo = repository.NewSessionRepository(
		catalog.DefaultSkillCatalog(),
		nopRecommender{},
		30*time.Minute,
		repository.WithClock(s.clock.Now),
		repository.WithSubmitLimit(1, 3),
	)
}

func TestSessionRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(SessionRepositoryTestSuite))
}

func (s *SessionRepositoryTestSuite) TestCreateAndGet() {
	sess, err := s.repo.Create(s.ctx)
	s.Require().NoError(err)
	s.NotNil(sess.Selection)
	s.NotNil(sess.Submission)
	s.Equal(1, s.repo.Len())

	got, err := s.repo.GetByID(s.ctx, sess.ID.String())
	s.Require().NoError(err)
	s.Same(sess, got)
}

func (s *SessionRepositoryTestSuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(s.ctx, "not-a-uuid")
	s.ErrorIs(err, domain.ErrSessionNotFound)

	_, err = s.repo.GetByID(s.ctx, "6f1b5c1e-8d7a-4a43-9d0e-2f5a9f0b1c11")
	s.ErrorIs(err, domain.ErrSessionNotFound)
}

func (s *SessionRepositoryTestSuite) TestExpiry() {
	sess, err := s.repo.Create(s.ctx)
	s.Require().NoError(err)

	s.clock.Advance(20 * time.Minute)
	_, err = s.repo.GetByID(s.ctx, sess.ID.String())
	s.Require().NoError(err, "touch keeps the session alive")

	s.clock.Advance(20 * time.Minute)
	s.Equal(0, s.repo.DeleteExpired(s.ctx))

	s.clock.Advance(11 * time.Minute)
	_, err = s.repo.GetByID(s.ctx, sess.ID.String())
	s.ErrorIs(err, domain.ErrSessionNotFound)

	s.Equal(1, s.repo.DeleteExpired(s.ctx))
	s.Equal(0, s.repo.Len())
}

func (s *SessionRepositoryTestSuite) TestSubmitLimit() {
	sess, err := s.repo.Create(s.ctx)
	s.Require().NoError(err)

	now := s.clock.Now()
	s.True(sess.Limiter.AllowN(now, 1))
	s.True(sess.Limiter.AllowN(now, 1))
	s.True(sess.Limiter.AllowN(now, 1))
	s.False(sess.Limiter.AllowN(now, 1))
	s.True(sess.Limiter.AllowN(now.Add(time.Second), 1))
}

func (s *SessionRepositoryTestSuite) TestFlashState() {
	sess, err := s.repo.Create(s.ctx)
	s.Require().NoError(err)

	sess.AddNotice(domain.Notice{Level: domain.NoticeError, Title: "boom"})
	sess.AddNotice(domain.Notice{Level: domain.NoticeSuccess, Title: "ok"})
	sess.DropErrorNotices()

	notices := sess.TakeNotices()
	s.Require().Len(notices, 1)
	s.Equal("ok", notices[0].Title)
	s.Empty(sess.TakeNotices())

	sess.SetPlan(&apply.Plan{Company: "TCS"})
	s.Equal("TCS", sess.TakePlan().Company)
	s.Nil(sess.TakePlan())

	sess.SetFormValues("Pune", 10000)
	loc, stipend := sess.FormValues()
	s.Equal("Pune", loc)
	s.Equal(10000, stipend)
}

func (s *SessionRepositoryTestSuite) TestSweepStopsOnCancel() {
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		s.repo.Sweep(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("sweeper did not stop")
	}
}
