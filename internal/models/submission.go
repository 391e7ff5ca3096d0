package models

import "time"

type SubmissionStatus string

const (
	SubmissionPending SubmissionStatus = "Pending"
	SubmissionValid   SubmissionStatus = "Valid"
	SubmissionInvalid SubmissionStatus = "Invalid"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPending, SubmissionValid, SubmissionInvalid:
		return true
	}
	return false
}

type Submission struct {
	ID          string           `json:"id"`
	TeamID      string           `json:"teamId"`
	ProposalURL string           `json:"proposalUrl"`
	Status      SubmissionStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   *time.Time       `json:"updatedAt,omitempty"`
}

type SubmissionWithTeam struct {
	Submission
	Team        *Team         `json:"team"`
	TeamMembers []*TeamMember `json:"teamMembers"`
}

type SubmissionStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}
