package api

import (
	"errors"
	"log/slog"
	"net/http"

	"hackdash/internal/db"
	"hackdash/internal/models"
	"hackdash/internal/notify"
)

type SubmissionHandler struct {
	submissions *db.SubmissionRepository
	teams       *db.TeamRepository
	members     *db.MemberRepository
	notifier    *notify.Service
}

func NewSubmissionHandler(
	submissions *db.SubmissionRepository,
	teams *db.TeamRepository,
	members *db.MemberRepository,
	notifier *notify.Service,
) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		teams:       teams,
		members:     members,
		notifier:    notifier,
	}
}

// PUT /api/team/submission/status
type SubmissionStatusRequest struct {
	SubmissionID string `json:"submissionId" validate:"required"`
	Status       string `json:"status" validate:"required"`
}

type SubmissionStatusResponse struct {
	Success          bool               `json:"success"`
	Message          string             `json:"message"`
	Data             *models.Submission `json:"data"`
	NotificationSent bool               `json:"notificationSent"`
}

func (h *SubmissionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req SubmissionStatusRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	status := models.SubmissionStatus(req.Status)
	if !status.Valid() {
		badRequest(w, "Invalid status value")
		return
	}

	submission, err := h.submissions.FindByID(req.SubmissionID)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Submission not found")
		return
	}
	if err != nil {
		slog.Error("error fetching submission", "error", err)
		internalError(w)
		return
	}

	team, err := h.teams.FindByID(submission.TeamID)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Team not found")
		return
	}
	if err != nil {
		slog.Error("error fetching team", "error", err)
		internalError(w)
		return
	}

	updated, err := h.submissions.UpdateStatus(submission.ID, status)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Submission not found")
		return
	}
	if err != nil {
		slog.Error("error updating submission status", "error", err)
		internalError(w)
		return
	}

	notificationSent := false
	switch status {
	case models.SubmissionValid:
		notificationSent = h.notifier.SubmissionStatus(team.CreatedBy, team.ID, team.TeamName, true)
	case models.SubmissionInvalid:
		notificationSent = h.notifier.SubmissionStatus(team.CreatedBy, team.ID, team.TeamName, false)
	}

	writeJSON(w, http.StatusOK, SubmissionStatusResponse{
		Success:          true,
		Message:          "Submission status updated successfully",
		Data:             updated,
		NotificationSent: notificationSent,
	})
}

// GET /api/team/submission
type SubmissionListResponse struct {
	Data []*models.SubmissionWithTeam `json:"data"`
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.submissions.FindAll()
	if err != nil {
		slog.Error("error fetching submissions", "error", err)
		internalError(w)
		return
	}

	teams, err := h.teams.FindAll()
	if err != nil {
		slog.Error("error fetching teams", "error", err)
		internalError(w)
		return
	}
	teamsByID := make(map[string]*models.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
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

	withTeams := make([]*models.SubmissionWithTeam, 0, len(submissions))
	for _, s := range submissions {
		withTeams = append(withTeams, &models.SubmissionWithTeam{
			Submission:  *s,
			Team:        teamsByID[s.TeamID],
			TeamMembers: membersByTeamID[s.TeamID],
		})
	}

	writeJSON(w, http.StatusOK, SubmissionListResponse{Data: withTeams})
}

// GET /api/team/submission/stats
type SubmissionStatsResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    *models.SubmissionStats `json:"data"`
}

func (h *SubmissionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.submissions.Stats()
	if err != nil {
		slog.Error("error fetching submission stats", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, SubmissionStatsResponse{
		Success: true,
		Message: "Submission statistics fetched successfully",
		Data:    stats,
	})
}
