package models

import "time"

type WorkshopApproval string

const (
	WorkshopPending  WorkshopApproval = "Pending"
	WorkshopApproved WorkshopApproval = "Approved"
	WorkshopRejected WorkshopApproval = "Rejected"
)

func (a WorkshopApproval) Valid() bool {
	switch a {
	case WorkshopPending, WorkshopApproved, WorkshopRejected:
		return true
	}
	return false
}

type Workshop struct {
	ID               string           `json:"id"`
	FullName         string           `json:"fullName"`
	Email            string           `json:"email"`
	Institution      string           `json:"institution"`
	WhatsappNumber   string           `json:"whatsappNumber"`
	WorkshopTrack    string           `json:"workshopTrack"`
	PaymentProofLink string           `json:"paymentProofLink"`
	Approval         WorkshopApproval `json:"approval"`
	RejectionMessage *string          `json:"rejectionMessage,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

type WorkshopStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}
