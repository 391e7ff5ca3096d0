package models

import "time"

type NotificationType string

const (
	NotificationTeamApproved       NotificationType = "team_approved"
	NotificationTeamRejected       NotificationType = "team_rejected"
	NotificationMemberApproved     NotificationType = "member_approved"
	NotificationMemberRejected     NotificationType = "member_rejected"
	NotificationSubmissionApproved NotificationType = "submission_approved"
	NotificationSubmissionRejected NotificationType = "submission_rejected"
	NotificationWorkshopApproved   NotificationType = "workshop_approved"
	NotificationWorkshopRejected   NotificationType = "workshop_rejected"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	TeamID    *string          `json:"teamId,omitempty"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
}
