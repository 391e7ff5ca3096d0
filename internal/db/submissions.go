package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hackdash/internal/models"
)

type SubmissionRepository struct {
	db *DB
}

func NewSubmissionRepository(db *DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(teamID, proposalURL string) (*models.Submission, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := r.db.Exec(
		`INSERT INTO submissions (id, team_id, proposal_url, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, teamID, proposalURL, models.SubmissionPending, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating submission: %w", err)
	}

	return &models.Submission{
		ID:          id,
		TeamID:      teamID,
		ProposalURL: proposalURL,
		Status:      models.SubmissionPending,
		CreatedAt:   now,
	}, nil
}

func (r *SubmissionRepository) FindByID(id string) (*models.Submission, error) {
	s, err := scanSubmission(r.db.QueryRow(
		`SELECT id, team_id, proposal_url, status, created_at, updated_at FROM submissions WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying submission: %w", err)
	}

	return s, nil
}

func (r *SubmissionRepository) FindAll() ([]*models.Submission, error) {
	rows, err := r.db.Query(
		`SELECT id, team_id, proposal_url, status, created_at, updated_at FROM submissions ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*models.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		submissions = append(submissions, s)
	}

	return submissions, rows.Err()
}

func (r *SubmissionRepository) UpdateStatus(id string, status models.SubmissionStatus) (*models.Submission, error) {
	result, err := r.db.Exec(
		`UPDATE submissions SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating submission status: %w", err)
	}
	if err := checkRowsAffected(result); err != nil {
		return nil, err
	}

	return r.FindByID(id)
}

func (r *SubmissionRepository) Stats() (*models.SubmissionStats, error) {
	stats := &models.SubmissionStats{}

	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM submissions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("querying submission stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status models.SubmissionStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning submission stats: %w", err)
		}

		stats.Total += count
		switch status {
		case models.SubmissionPending:
			stats.Pending = count
		case models.SubmissionValid:
			stats.Valid = count
		case models.SubmissionInvalid:
			stats.Invalid = count
		}
	}

	return stats, rows.Err()
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var s models.Submission
	var updatedAt sql.NullTime

	err := row.Scan(&s.ID, &s.TeamID, &s.ProposalURL, &s.Status, &s.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	s.UpdatedAt = nullTimeToPtr(updatedAt)

	return &s, nil
}
