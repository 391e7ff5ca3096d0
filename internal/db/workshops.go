package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hackdash/internal/models"
)

type WorkshopRepository struct {
	db *DB
}

func NewWorkshopRepository(db *DB) *WorkshopRepository {
	return &WorkshopRepository{db: db}
}

func (r *WorkshopRepository) Create(fullName, email, institution, whatsappNumber, track, paymentProofLink string) (*models.Workshop, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := r.db.Exec(
		`INSERT INTO workshops (id, full_name, email, institution, whatsapp_number, workshop_track, payment_proof_link, approval, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, fullName, email, institution, whatsappNumber, track, paymentProofLink, models.WorkshopPending, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating workshop registration: %w", err)
	}

	return &models.Workshop{
		ID:               id,
		FullName:         fullName,
		Email:            email,
		Institution:      institution,
		WhatsappNumber:   whatsappNumber,
		WorkshopTrack:    track,
		PaymentProofLink: paymentProofLink,
		Approval:         models.WorkshopPending,
		CreatedAt:        now,
	}, nil
}

func (r *WorkshopRepository) FindByID(id string) (*models.Workshop, error) {
	w, err := scanWorkshop(r.db.QueryRow(
		`SELECT id, full_name, email, institution, whatsapp_number, workshop_track, payment_proof_link, approval, rejection_message, created_at
         FROM workshops WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying workshop registration: %w", err)
	}

	return w, nil
}

func (r *WorkshopRepository) FindAll() ([]*models.Workshop, error) {
	rows, err := r.db.Query(
		`SELECT id, full_name, email, institution, whatsapp_number, workshop_track, payment_proof_link, approval, rejection_message, created_at
         FROM workshops ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying workshop registrations: %w", err)
	}
	defer rows.Close()

	var workshops []*models.Workshop
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workshop registration: %w", err)
		}
		workshops = append(workshops, w)
	}

	return workshops, rows.Err()
}

func (r *WorkshopRepository) UpdateApproval(id string, approval models.WorkshopApproval, rejectionMessage *string) (*models.Workshop, error) {
	var result sql.Result
	var err error
	switch approval {
	case models.WorkshopRejected:
		result, err = r.db.Exec(
			`UPDATE workshops SET approval = ?, rejection_message = ? WHERE id = ?`,
			approval, rejectionMessage, id,
		)
	case models.WorkshopApproved:
		result, err = r.db.Exec(
			`UPDATE workshops SET approval = ?, rejection_message = NULL WHERE id = ?`,
			approval, id,
		)
	default:
		result, err = r.db.Exec(`UPDATE workshops SET approval = ? WHERE id = ?`, approval, id)
	}
	if err != nil {
		return nil, fmt.Errorf("updating workshop approval: %w", err)
	}
	if err := checkRowsAffected(result); err != nil {
		return nil, err
	}

	return r.FindByID(id)
}

func (r *WorkshopRepository) Stats() (*models.WorkshopStats, error) {
	stats := &models.WorkshopStats{}

	rows, err := r.db.Query(`SELECT approval, COUNT(*) FROM workshops GROUP BY approval`)
	if err != nil {
		return nil, fmt.Errorf("querying workshop stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status models.WorkshopApproval
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning workshop stats: %w", err)
		}

		stats.Total += count
		switch status {
		case models.WorkshopPending:
			stats.Pending = count
		case models.WorkshopApproved:
			stats.Approved = count
		case models.WorkshopRejected:
			stats.Rejected = count
		}
	}

	return stats, rows.Err()
}

func scanWorkshop(row rowScanner) (*models.Workshop, error) {
	var w models.Workshop
	var rejectionMessage sql.NullString

	err := row.Scan(
		&w.ID,
		&w.FullName,
		&w.Email,
		&w.Institution,
		&w.WhatsappNumber,
		&w.WorkshopTrack,
		&w.PaymentProofLink,
		&w.Approval,
		&rejectionMessage,
		&w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.RejectionMessage = nullStringToPtr(rejectionMessage)

	return &w, nil
}
