package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hackdash/internal/models"
)

type TeamRepository struct {
	db *DB
}

func NewTeamRepository(db *DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(createdBy, teamName, institution, whatsappNumber, paymentProofURL string) (*models.Team, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := r.db.Exec(
		`INSERT INTO teams (id, created_by, team_name, institution, whatsapp_number, paymentproof_url, approval_status, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, createdBy, teamName, institution, whatsappNumber, paymentProofURL, models.TeamPending, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating team: %w", err)
	}

	return &models.Team{
		ID:              id,
		CreatedBy:       createdBy,
		TeamName:        teamName,
		Institution:     institution,
		WhatsappNumber:  whatsappNumber,
		PaymentProofURL: paymentProofURL,
		ApprovalStatus:  models.TeamPending,
		CreatedAt:       now,
	}, nil
}

func (r *TeamRepository) FindByID(id string) (*models.Team, error) {
	return r.findOne(`SELECT id, created_by, team_name, institution, whatsapp_number, paymentproof_url, approval_status, reject_message, created_at, updated_at FROM teams WHERE id = ?`, id)
}

func (r *TeamRepository) FindAll() ([]*models.Team, error) {
	rows, err := r.db.Query(
		`SELECT id, created_by, team_name, institution, whatsapp_number, paymentproof_url, approval_status, reject_message, created_at, updated_at FROM teams ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}

	return teams, rows.Err()
}

// UpdateApproval persists a status transition. The reject message is stored
// on rejection and cleared on acceptance; other transitions leave it alone.
func (r *TeamRepository) UpdateApproval(id string, status models.TeamApproval, rejectMessage *string) (*models.Team, error) {
	now := time.Now().UTC()

	var result sql.Result
	var err error
	switch status {
	case models.TeamRejected:
		result, err = r.db.Exec(
			`UPDATE teams SET approval_status = ?, reject_message = ?, updated_at = ? WHERE id = ?`,
			status, rejectMessage, now, id,
		)
	case models.TeamAccepted:
		result, err = r.db.Exec(
			`UPDATE teams SET approval_status = ?, reject_message = NULL, updated_at = ? WHERE id = ?`,
			status, now, id,
		)
	default:
		result, err = r.db.Exec(
			`UPDATE teams SET approval_status = ?, updated_at = ? WHERE id = ?`,
			status, now, id,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("updating team approval: %w", err)
	}
	if err := checkRowsAffected(result); err != nil {
		return nil, err
	}

	return r.FindByID(id)
}

func (r *TeamRepository) Stats() (*models.TeamStats, error) {
	stats := &models.TeamStats{}

	rows, err := r.db.Query(`SELECT approval_status, COUNT(*) FROM teams GROUP BY approval_status`)
	if err != nil {
		return nil, fmt.Errorf("querying team stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status models.TeamApproval
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning team stats: %w", err)
		}

		stats.Total += count
		switch status {
		case models.TeamPending:
			stats.Pending = count
		case models.TeamAccepted:
			stats.Accepted = count
		case models.TeamRejected:
			stats.Rejected = count
		}
	}

	return stats, rows.Err()
}

func (r *TeamRepository) findOne(query string, args ...any) (*models.Team, error) {
	row := r.db.QueryRow(query, args...)

	t, err := scanTeam(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner) (*models.Team, error) {
	var t models.Team
	var rejectMessage sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&t.ID,
		&t.CreatedBy,
		&t.TeamName,
		&t.Institution,
		&t.WhatsappNumber,
		&t.PaymentProofURL,
		&t.ApprovalStatus,
		&rejectMessage,
		&t.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.RejectMessage = nullStringToPtr(rejectMessage)
	t.UpdatedAt = nullTimeToPtr(updatedAt)

	return &t, nil
}
