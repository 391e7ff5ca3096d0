package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"hackdash/internal/db"
)

type contextKey string

const adminEmailKey contextKey = "adminEmail"

// SessionMiddleware resolves the admin_session cookie against the session
// store. Absence of a valid session is "no user", never an error; expired
// sessions are deleted on read.
type SessionMiddleware struct {
	sessions *db.SessionRepository
	admins   *db.AdminRepository
}

func NewSessionMiddleware(sessions *db.SessionRepository, admins *db.AdminRepository) *SessionMiddleware {
	return &SessionMiddleware{
		sessions: sessions,
		admins:   admins,
	}
}

// CurrentAdmin returns the authenticated admin email for the request, or
// false when no valid session is presented. It fails closed on every path:
// missing cookie, unknown token, expired session, or an admin record removed
// after the session was issued.
func (m *SessionMiddleware) CurrentAdmin(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	session, err := m.sessions.FindByToken(cookie.Value)
	if err != nil {
		return "", false
	}

	if time.Now().After(session.ExpiresAt) {
		if err := m.sessions.Delete(session.SessionToken); err != nil {
			slog.Error("error deleting expired session", "error", err)
		}
		return "", false
	}

	if _, err := m.admins.FindByEmail(session.AdminEmail); err != nil {
		return "", false
	}

	return session.AdminEmail, true
}

func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := m.CurrentAdmin(r)
		if !ok {
			unauthorized(w, "Valid session required")
			return
		}

		ctx := context.WithValue(r.Context(), adminEmailKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminEmail returns the session-bound admin email placed in the context by
// RequireSession.
func AdminEmail(r *http.Request) string {
	if v := r.Context().Value(adminEmailKey); v != nil {
		if email, ok := v.(string); ok {
			return email
		}
	}
	return ""
}
