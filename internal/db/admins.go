package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hackdash/internal/models"
)

type AdminRepository struct {
	db *DB
}

func NewAdminRepository(db *DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(email, name string) (*models.Admin, error) {
	now := time.Now().UTC()

	_, err := r.db.Exec(
		`INSERT INTO admins (email, name, created_at) VALUES (?, ?, ?)`,
		email, name, now,
	)
	if err != nil {
		if IsUniqueConstraintError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("creating admin: %w", err)
	}

	return &models.Admin{
		Email:     email,
		Name:      name,
		CreatedAt: now,
	}, nil
}

func (r *AdminRepository) FindByEmail(email string) (*models.Admin, error) {
	var a models.Admin

	err := r.db.QueryRow(
		`SELECT email, name, created_at FROM admins WHERE email = ?`,
		email,
	).Scan(&a.Email, &a.Name, &a.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying admin: %w", err)
	}

	return &a, nil
}
