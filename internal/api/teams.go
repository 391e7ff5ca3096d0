package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"hackdash/internal/db"
	"hackdash/internal/models"
	"hackdash/internal/notify"
)

type TeamHandler struct {
	teams    *db.TeamRepository
	members  *db.MemberRepository
	users    *db.UserRepository
	mailer   Mailer
	notifier *notify.Service
}

func NewTeamHandler(
	teams *db.TeamRepository,
	members *db.MemberRepository,
	users *db.UserRepository,
	mailer Mailer,
	notifier *notify.Service,
) *TeamHandler {
	return &TeamHandler{
		teams:    teams,
		members:  members,
		users:    users,
		mailer:   mailer,
		notifier: notifier,
	}
}

// PUT /api/team/approval
type TeamApprovalRequest struct {
	TeamID        string `json:"teamId" validate:"required"`
	Approval      string `json:"approval" validate:"required"`
	RejectMessage string `json:"rejectMessage,omitempty"`
}

type TeamApprovalResponse struct {
	Success          bool         `json:"success"`
	Message          string       `json:"message"`
	Data             *models.Team `json:"data"`
	EmailSent        bool         `json:"emailSent"`
	NotificationSent bool         `json:"notificationSent"`
}

func (h *TeamHandler) UpdateApproval(w http.ResponseWriter, r *http.Request) {
	var req TeamApprovalRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	approval := models.TeamApproval(req.Approval)
	if !approval.Valid() {
		badRequest(w, "Invalid approval status")
		return
	}

	rejectMessage := strings.TrimSpace(req.RejectMessage)
	if approval == models.TeamRejected && rejectMessage == "" {
		badRequest(w, "Reject message is required when rejecting a team")
		return
	}

	team, err := h.teams.FindByID(req.TeamID)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Team not found")
		return
	}
	if err != nil {
		slog.Error("error fetching team", "error", err)
		internalError(w)
		return
	}

	leader, err := h.members.FindLeader(team.ID)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Team leader not found")
		return
	}
	if err != nil {
		slog.Error("error fetching team leader", "error", err)
		internalError(w)
		return
	}

	var rejectMessagePtr *string
	if approval == models.TeamRejected {
		rejectMessagePtr = &rejectMessage
	}

	updated, err := h.teams.UpdateApproval(team.ID, approval, rejectMessagePtr)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Team not found")
		return
	}
	if err != nil {
		slog.Error("error updating team approval", "error", err)
		internalError(w)
		return
	}

	// Side effects are best effort; the status change above is the source
	// of truth and never rolls back over a failed email or notification.
	emailSent := false
	notificationSent := false
	switch approval {
	case models.TeamAccepted:
		if err := h.mailer.SendTeamAccepted(leader.Email, leader.Name, team.TeamName); err != nil {
			slog.Error("error sending team approval email", "error", err, "team_id", team.ID)
		} else {
			emailSent = true
		}
		notificationSent = h.notifier.TeamApproval(team.CreatedBy, team.ID, team.TeamName, true, "")
	case models.TeamRejected:
		if err := h.mailer.SendTeamRejected(leader.Email, leader.Name, team.TeamName, rejectMessage); err != nil {
			slog.Error("error sending team rejection email", "error", err, "team_id", team.ID)
		} else {
			emailSent = true
		}
		notificationSent = h.notifier.TeamApproval(team.CreatedBy, team.ID, team.TeamName, false, rejectMessage)
	}

	writeJSON(w, http.StatusOK, TeamApprovalResponse{
		Success:          true,
		Message:          "Team approval updated successfully",
		Data:             updated,
		EmailSent:        emailSent,
		NotificationSent: notificationSent,
	})
}

// PUT /api/team/member/approval
type MemberApprovalRequest struct {
	MemberID string `json:"memberId" validate:"required"`
	Approval string `json:"approval" validate:"required"`
}

type MemberApprovalResponse struct {
	Success          bool               `json:"success"`
	Message          string             `json:"message"`
	Data             *models.TeamMember `json:"data"`
	NotificationSent bool               `json:"notificationSent"`
}

func (h *TeamHandler) UpdateMemberApproval(w http.ResponseWriter, r *http.Request) {
	var req MemberApprovalRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	approval := models.MemberApproval(req.Approval)
	if !approval.Valid() {
		badRequest(w, "Invalid approval status")
		return
	}

	member, err := h.members.FindByID(req.MemberID)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Team member not found")
		return
	}
	if err != nil {
		slog.Error("error fetching team member", "error", err)
		internalError(w)
		return
	}

	team, err := h.teams.FindByID(member.TeamID)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Team not found")
		return
	}
	if err != nil {
		slog.Error("error fetching team", "error", err)
		internalError(w)
		return
	}

	updated, err := h.members.UpdateApproval(member.ID, approval)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Team member not found")
		return
	}
	if err != nil {
		slog.Error("error updating member approval", "error", err)
		internalError(w)
		return
	}

	notificationSent := false
	switch approval {
	case models.MemberAccepted:
		notificationSent = h.notifier.MemberApproval(team.CreatedBy, team.ID, member.Name, team.TeamName, true)
	case models.MemberRejected:
		notificationSent = h.notifier.MemberApproval(team.CreatedBy, team.ID, member.Name, team.TeamName, false)
	}

	writeJSON(w, http.StatusOK, MemberApprovalResponse{
		Success:          true,
		Message:          "Member approval updated successfully",
		Data:             updated,
		NotificationSent: notificationSent,
	})
}

// GET /api/team/registration
type TeamRegistrationResponse struct {
	Data []*models.TeamWithDetails `json:"data"`
}

func (h *TeamHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.FindAll()
	if err != nil {
		slog.Error("error fetching teams", "error", err)
		internalError(w)
		return
	}

	users, err := h.users.FindAll()
	if err != nil {
		slog.Error("error fetching users", "error", err)
		internalError(w)
		return
	}
	usersByID := make(map[string]*models.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	members, err := h.members.FindAll()
	if err != nil {
		slog.Error("error fetching team members", "error", err)
		internalError(w)
		return
	}
	membersByTeamID := make(map[string][]*models.TeamMember)
	for _, m := range members {
		membersByTeamID[m.TeamID] = append(membersByTeamID[m.TeamID], m)
	}

	// Teams whose creator account disappeared are dropped from the view.
	details := make([]*models.TeamWithDetails, 0, len(teams))
	for _, t := range teams {
		creator, ok := usersByID[t.CreatedBy]
		if !ok {
			continue
		}

		teamMembers := membersByTeamID[t.ID]
		details = append(details, &models.TeamWithDetails{
			Team:        *t,
			Creator:     creator,
			Members:     teamMembers,
			MemberCount: len(teamMembers),
		})
	}

	writeJSON(w, http.StatusOK, TeamRegistrationResponse{Data: details})
}

// GET /api/team/stats
type TeamStatsResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    *models.TeamStats `json:"data"`
}

func (h *TeamHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.teams.Stats()
	if err != nil {
		slog.Error("error fetching team stats", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, TeamStatsResponse{
		Success: true,
		Message: "Team statistics fetched successfully",
		Data:    stats,
	})
}
