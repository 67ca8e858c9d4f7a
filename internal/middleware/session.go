package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mtlprog/internfinder/internal/domain"
	"github.com/mtlprog/internfinder/internal/repository"
)

type contextKey string

const (
	// ContextKeySession is the key for storing the visitor session in request context.
	ContextKeySession contextKey = "session"

	// SessionCookie is the name of the session cookie.
	SessionCookie = "internfinder_session"
)

// SessionMiddleware attaches a visitor session to every request.
type SessionMiddleware struct {
	sessions *repository.SessionRepository
}

// NewSessionMiddleware creates a new SessionMiddleware.
func NewSessionMiddleware(sessions *repository.SessionRepository) *SessionMiddleware {
	return &SessionMiddleware{
		sessions: sessions,
	}
}

// Attach resolves the session cookie, starting a new session when the cookie
// is missing or stale.
func (m *SessionMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.lookup(r)
		if err != nil {
			slog.Error("failed to load session", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if sess == nil {
			sess, err = m.sessions.Create(r.Context())
			if err != nil {
				slog.Error("failed to create session", "error", err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID.String(),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ContextKeySession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Peek resolves the session cookie like Attach, but a request without a live
// session gets an unsaved draft and no cookie.
func (m *SessionMiddleware) Peek(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.lookup(r)
		if err != nil {
			slog.Error("failed to load session", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if sess == nil {
			sess, err = m.sessions.Draft()
			if err != nil {
				slog.Error("failed to create draft session", "error", err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
		}

		ctx := context.WithValue(r.Context(), ContextKeySession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// lookup returns the cookie's live session, or nil when there is none.
func (m *SessionMiddleware) lookup(r *http.Request) (*repository.Session, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, nil
	}

	sess, err := m.sessions.GetByID(r.Context(), c.Value)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, nil
	}
	return sess, err
}

// GetSessionFromContext retrieves the visitor session from request context.
func GetSessionFromContext(ctx context.Context) (*repository.Session, error) {
	sess, ok := ctx.Value(ContextKeySession).(*repository.Session)
	if !ok || sess == nil {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}
