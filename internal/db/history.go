package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"hackdash/internal/models"
)

type HistoryRepository struct {
	db *DB
}

func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record appends one audit row. History rows are never updated or deleted.
func (r *HistoryRepository) Record(adminEmail string, action models.AdminAction, oldStatus, newStatus, entityType, entityID string) (*models.AdminActionHistory, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := r.db.Exec(
		`INSERT INTO admin_actions (id, admin_email, action, old_status, new_status, entity_type, entity_id, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, adminEmail, action, oldStatus, newStatus, entityType, entityID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("recording admin action: %w", err)
	}

	return &models.AdminActionHistory{
		ID:         id,
		AdminEmail: adminEmail,
		Action:     action,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  now,
	}, nil
}

// FindByEntityID returns the audit trail for one entity, newest first.
func (r *HistoryRepository) FindByEntityID(entityID string) ([]*models.AdminActionHistory, error) {
	rows, err := r.db.Query(
		`SELECT id, admin_email, action, old_status, new_status, entity_type, entity_id, created_at
         FROM admin_actions WHERE entity_id = ? ORDER BY created_at DESC`,
		entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying admin actions: %w", err)
	}
	defer rows.Close()

	var history []*models.AdminActionHistory
	for rows.Next() {
		var h models.AdminActionHistory
		if err := rows.Scan(&h.ID, &h.AdminEmail, &h.Action, &h.OldStatus, &h.NewStatus, &h.EntityType, &h.EntityID, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning admin action: %w", err)
		}
		history = append(history, &h)
	}

	return history, rows.Err()
}
