package db

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultCleanupInterval = 1 * time.Hour
)

// CleanupService periodically purges expired magic-link tokens and admin
// sessions. Sessions are also deleted lazily on read; this catches the rows
// nobody ever presents again.
type CleanupService struct {
	authTokens *AuthTokenRepository
	sessions   *SessionRepository
	interval   time.Duration
}

func NewCleanupService(authTokens *AuthTokenRepository, sessions *SessionRepository) *CleanupService {
	return &CleanupService{
		authTokens: authTokens,
		sessions:   sessions,
		interval:   DefaultCleanupInterval,
	}
}

func (s *CleanupService) Start(ctx context.Context) {
	slog.Info("starting credential cleanup service", "component", "cleanup", "interval", s.interval)

	s.runCleanup()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping credential cleanup service", "component", "cleanup")
			return
		case <-ticker.C:
			s.runCleanup()
		}
	}
}

func (s *CleanupService) runCleanup() {
	tokensDeleted, err := s.authTokens.DeleteExpired()
	if err != nil {
		slog.Error("error deleting expired auth tokens", "component", "cleanup", "error", err)
	} else if tokensDeleted > 0 {
		slog.Info("deleted expired auth tokens", "component", "cleanup", "count", tokensDeleted)
	}

	sessionsDeleted, err := s.sessions.DeleteExpired()
	if err != nil {
		slog.Error("error deleting expired sessions", "component", "cleanup", "error", err)
	} else if sessionsDeleted > 0 {
		slog.Info("deleted expired sessions", "component", "cleanup", "count", sessionsDeleted)
	}
}
