package models

import "time"

type TeamApproval string

const (
	TeamPending     TeamApproval = "Pending"
	TeamAccepted    TeamApproval = "Accepted"
	TeamRejected    TeamApproval = "Rejected"
	TeamSubmitted   TeamApproval = "Submitted"
	TeamResubmitted TeamApproval = "Resubmitted"
)

func (a TeamApproval) Valid() bool {
	switch a {
	case TeamPending, TeamAccepted, TeamRejected, TeamSubmitted, TeamResubmitted:
		return true
	}
	return false
}

type MemberApproval string

const (
	MemberPending  MemberApproval = "Pending"
	MemberAccepted MemberApproval = "Accepted"
	MemberRejected MemberApproval = "Rejected"
)

func (a MemberApproval) Valid() bool {
	switch a {
	case MemberPending, MemberAccepted, MemberRejected:
		return true
	}
	return false
}

type Team struct {
	ID              string       `json:"id"`
	CreatedBy       string       `json:"createdBy"`
	TeamName        string       `json:"teamName"`
	Institution     string       `json:"institution"`
	WhatsappNumber  string       `json:"whatsappNumber"`
	PaymentProofURL string       `json:"paymentProofUrl"`
	ApprovalStatus  TeamApproval `json:"approvalStatus"`
	RejectMessage   *string      `json:"rejectMessage,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       *time.Time   `json:"updatedAt,omitempty"`
}

type TeamMember struct {
	ID              string         `json:"id"`
	TeamID          string         `json:"teamId"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	GithubURL       string         `json:"githubUrl"`
	RequirementLink string         `json:"requirementLink"`
	IsLeader        bool           `json:"isLeader"`
	MemberRole      string         `json:"memberRole"`
	MemberApproval  MemberApproval `json:"memberApproval"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       *time.Time     `json:"updatedAt,omitempty"`
}

// TeamWithDetails is the registration-dashboard view of a team: the creator
// account plus every member row.
type TeamWithDetails struct {
	Team
	Creator     *User         `json:"creator"`
	Members     []*TeamMember `json:"members"`
	MemberCount int           `json:"memberCount"`
}

type TeamStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}
