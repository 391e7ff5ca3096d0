package models

import "time"

type AdminAction string

const (
	ActionApprove AdminAction = "approve"
	ActionReject  AdminAction = "reject"
	ActionReset   AdminAction = "reset"
)

// AdminActionHistory is one append-only audit row per admin state transition.
type AdminActionHistory struct {
	ID         string      `json:"id"`
	AdminEmail string      `json:"adminEmail"`
	Action     AdminAction `json:"action"`
	OldStatus  string      `json:"oldStatus"`
	NewStatus  string      `json:"newStatus"`
	EntityType string      `json:"entityType"`
	EntityID   string      `json:"entityId"`
	CreatedAt  time.Time   `json:"createdAt"`
}
