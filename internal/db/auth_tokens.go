package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hackdash/internal/models"
)

type AuthTokenRepository struct {
	db *DB
}

func NewAuthTokenRepository(db *DB) *AuthTokenRepository {
	return &AuthTokenRepository{db: db}
}

func (r *AuthTokenRepository) Create(email, token string, expiresAt time.Time) (*models.AuthToken, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := r.db.Exec(
		`INSERT INTO auth_tokens (id, email, token, expires_at, used, created_at) VALUES (?, ?, ?, ?, 0, ?)`,
		id, email, token, expiresAt.UTC(), now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth token: %w", err)
	}

	return &models.AuthToken{
		ID:        id,
		Email:     email,
		Token:     token,
		ExpiresAt: expiresAt,
		Used:      false,
		CreatedAt: now,
	}, nil
}

// FindUnused returns the token row matching the exact token value, provided it
// has not been redeemed. Expired rows are still returned; the caller owns the
// expiry check so it can distinguish invalid from expired.
func (r *AuthTokenRepository) FindUnused(token string) (*models.AuthToken, error) {
	var t models.AuthToken

	err := r.db.QueryRow(
		`SELECT id, email, token, expires_at, used, created_at FROM auth_tokens WHERE token = ? AND used = 0`,
		token,
	).Scan(&t.ID, &t.Email, &t.Token, &t.ExpiresAt, &t.Used, &t.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying auth token: %w", err)
	}

	return &t, nil
}

// MarkUsedIfUnused atomically redeems a token. Returns false if the token was
// already used, which makes concurrent double-redemption a clean failure.
func (r *AuthTokenRepository) MarkUsedIfUnused(id string) (bool, error) {
	result, err := r.db.Exec(`UPDATE auth_tokens SET used = 1 WHERE id = ? AND used = 0`, id)
	if err != nil {
		return false, fmt.Errorf("marking token used: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking rows affected: %w", err)
	}

	return rows > 0, nil
}

func (r *AuthTokenRepository) DeleteExpired() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM auth_tokens WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting expired tokens: %w", err)
	}

	return result.RowsAffected()
}
