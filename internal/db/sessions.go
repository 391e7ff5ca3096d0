package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hackdash/internal/models"
)

type SessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(sessionToken, adminEmail string, expiresAt time.Time) (*models.AdminSession, error) {
	now := time.Now().UTC()

	_, err := r.db.Exec(
		`INSERT INTO admin_sessions (session_token, admin_email, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		sessionToken, adminEmail, expiresAt.UTC(), now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &models.AdminSession{
		SessionToken: sessionToken,
		AdminEmail:   adminEmail,
		ExpiresAt:    expiresAt,
		CreatedAt:    now,
	}, nil
}

func (r *SessionRepository) FindByToken(sessionToken string) (*models.AdminSession, error) {
	var s models.AdminSession

	err := r.db.QueryRow(
		`SELECT session_token, admin_email, expires_at, created_at FROM admin_sessions WHERE session_token = ?`,
		sessionToken,
	).Scan(&s.SessionToken, &s.AdminEmail, &s.ExpiresAt, &s.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	return &s, nil
}

func (r *SessionRepository) Delete(sessionToken string) error {
	_, err := r.db.Exec(`DELETE FROM admin_sessions WHERE session_token = ?`, sessionToken)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM admin_sessions WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}

	return result.RowsAffected()
}
