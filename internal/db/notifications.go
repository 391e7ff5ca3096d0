package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"hackdash/internal/models"
)

type NotificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(userID string, teamID *string, notifType models.NotificationType, title, message string) (*models.Notification, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := r.db.Exec(
		`INSERT INTO notifications (id, user_id, team_id, type, title, message, is_read, created_at)
         VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		id, userID, teamID, notifType, title, message, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}

	return &models.Notification{
		ID:        id,
		UserID:    userID,
		TeamID:    teamID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		IsRead:    false,
		CreatedAt: now,
	}, nil
}

func (r *NotificationRepository) FindByUserID(userID string) ([]*models.Notification, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, team_id, type, title, message, is_read, created_at
         FROM notifications WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.TeamID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}
