package repository

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mtlprog/internfinder/internal/apply"
	"github.com/mtlprog/internfinder/internal/domain"
	"github.com/mtlprog/internfinder/internal/selection"
	"github.com/mtlprog/internfinder/internal/service"
)

// Session is the per-visitor view-model: the skill selection, the submission
// flow and whatever the next page render should show.
type Session struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	Selection  *selection.Manager
	Submission *service.SubmissionService
	Limiter    *rate.Limiter

	mu       sync.Mutex
	lastSeen time.Time
	notices  []domain.Notice
	results  []domain.Recommendation
	plan     *apply.Plan
	location string
	stipend  int
}

// AddNotice queues a notice for the next render.
func (s *Session) AddNotice(n domain.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
}

// TakeNotices returns and clears the queued notices.
func (s *Session) TakeNotices() []domain.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

// DropErrorNotices removes queued error notices.
func (s *Session) DropErrorNotices() {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.notices[:0]
	for _, n := range s.notices {
		if n.Level != domain.NoticeError {
			kept = append(kept, n)
		}
	}
	s.notices = kept
}

// SetResults replaces the displayed recommendations.
func (s *Session) SetResults(recs []domain.Recommendation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = recs
}

// Results returns the displayed recommendations.
func (s *Session) Results() []domain.Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// SetPlan stores an apply plan for the next render.
func (s *Session) SetPlan(p *apply.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = p
}

// TakePlan returns and clears the stored apply plan.
func (s *Session) TakePlan() *apply.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.plan
	s.plan = nil
	return p
}

// SetFormValues remembers the last submitted dropdown values.
func (s *Session) SetFormValues(location string, stipend int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = location
	s.stipend = stipend
}

// FormValues returns the last submitted dropdown values.
func (s *Session) FormValues() (location string, stipend int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location, s.stipend
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

// SessionRepository keeps visitor sessions in memory.
type SessionRepository struct {
	catalog     selection.Catalog
	recommender service.Recommender
	ttl         time.Duration
	limit       rate.Limit
	burst       int
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// SessionOption configures a SessionRepository.
type SessionOption func(*SessionRepository)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(r *SessionRepository) {
		r.now = now
	}
}

// WithSubmitLimit sets the per-session submission budget.
func WithSubmitLimit(perSecond float64, burst int) SessionOption {
	return func(r *SessionRepository) {
		r.limit = rate.Limit(perSecond)
		r.burst = burst
	}
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(c selection.Catalog, recommender service.Recommender, ttl time.Duration, opts ...SessionOption) *SessionRepository {
	r := &SessionRepository{
		catalog:     c,
		recommender: recommender,
		ttl:         ttl,
		limit:       rate.Inf,
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a new session and stores it.
func (r *SessionRepository) Create(_ context.Context) (*Session, error) {
	sess, err := r.newSession()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()

	slog.Debug("session created", "session_id", sess.ID.String())
	return sess, nil
}

// Draft returns a fresh session that is not stored. Read-only requests
// without a cookie are answered from it.
func (r *SessionRepository) Draft() (*Session, error) {
	return r.newSession()
}

func (r *SessionRepository) newSession() (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	now := r.now()
	limiter := rate.NewLimiter(r.limit, r.burst)
	sess := &Session{
		ID:         id,
		CreatedAt:  now,
		Selection:  selection.NewManager(r.catalog),
		Submission: service.NewSubmissionService(r.recommender, service.WithLimiter(limiter)),
		Limiter:    limiter,
		lastSeen:   now,
	}
	sess.Submission.OnStatusChange(func(st service.Status) {
		slog.Debug("submission status changed", "session_id", id.String(), "status", st)
	})
	return sess, nil
}

// GetByID returns a live session and marks it as seen. Unknown, malformed
// and expired IDs return ErrSessionNotFound.
func (r *SessionRepository) GetByID(_ context.Context, id string) (*Session, error) {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}

	r.mu.RLock()
	sess, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	now := r.now()
	if r.expired(sess, now) {
		return nil, domain.ErrSessionNotFound
	}
	sess.touch(now)
	return sess, nil
}

// DeleteExpired drops idle sessions and returns how many were removed.
// Sessions with a submission in flight are kept.
func (r *SessionRepository) DeleteExpired(_ context.Context) int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, sess := range r.sessions {
		if r.expired(sess, now) && !sess.Submission.Status().Busy() {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions.
func (r *SessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep calls DeleteExpired every interval until ctx is done.
func (r *SessionRepository) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.DeleteExpired(ctx); n > 0 {
				slog.Info("expired sessions removed", "count", n, "remaining", r.Len())
			}
		}
	}
}

func (r *SessionRepository) expired(sess *Session, now time.Time) bool {
	return r.ttl > 0 && now.Sub(sess.LastSeen()) > r.ttl
}
