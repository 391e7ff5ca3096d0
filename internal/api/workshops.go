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

type WorkshopHandler struct {
	workshops *db.WorkshopRepository
	history   *db.HistoryRepository
	mailer    Mailer
	notifier  *notify.Service
}

func NewWorkshopHandler(
	workshops *db.WorkshopRepository,
	history *db.HistoryRepository,
	mailer Mailer,
	notifier *notify.Service,
) *WorkshopHandler {
	return &WorkshopHandler{
		workshops: workshops,
		history:   history,
		mailer:    mailer,
		notifier:  notifier,
	}
}

// PATCH /api/workshop
type WorkshopApprovalRequest struct {
	ID            string `json:"id" validate:"required"`
	Status        string `json:"status" validate:"required"`
	RejectMessage string `json:"rejectMessage,omitempty"`
}

type WorkshopApprovalResponse struct {
	Success          bool             `json:"success"`
	Data             *models.Workshop `json:"data"`
	EmailSent        bool             `json:"emailSent"`
	NotificationSent bool             `json:"notificationSent"`
}

func (h *WorkshopHandler) UpdateApproval(w http.ResponseWriter, r *http.Request) {
	adminEmail := AdminEmail(r)

	var req WorkshopApprovalRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	status := models.WorkshopApproval(req.Status)
	if !status.Valid() {
		badRequest(w, "Invalid approval status")
		return
	}

	rejectMessage := strings.TrimSpace(req.RejectMessage)
	if status == models.WorkshopRejected && rejectMessage == "" {
		badRequest(w, "Reject message is required when rejecting a workshop registration")
		return
	}

	workshop, err := h.workshops.FindByID(req.ID)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Workshop registration not found")
		return
	}
	if err != nil {
		slog.Error("error fetching workshop registration", "error", err)
		internalError(w)
		return
	}
	oldStatus := workshop.Approval

	var rejectMessagePtr *string
	if status == models.WorkshopRejected {
		rejectMessagePtr = &rejectMessage
	}

	updated, err := h.workshops.UpdateApproval(workshop.ID, status, rejectMessagePtr)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Workshop registration not found")
		return
	}
	if err != nil {
		slog.Error("error updating workshop approval", "error", err)
		internalError(w)
		return
	}

	// The workshop path is the only one that records audit history.
	action := models.ActionReset
	switch status {
	case models.WorkshopApproved:
		action = models.ActionApprove
	case models.WorkshopRejected:
		action = models.ActionReject
	}
	if _, err := h.history.Record(adminEmail, action, string(oldStatus), string(status), "workshop", workshop.ID); err != nil {
		slog.Error("error recording admin action", "error", err, "workshop_id", workshop.ID)
	}

	emailSent := false
	notificationSent := false
	switch status {
	case models.WorkshopApproved:
		if err := h.mailer.SendWorkshopApproved(workshop.Email, workshop.FullName, workshop.WorkshopTrack, workshop.Institution); err != nil {
			slog.Error("error sending workshop approval email", "error", err, "workshop_id", workshop.ID)
		} else {
			emailSent = true
		}
		notificationSent = h.notifier.WorkshopApproval(workshop.Email, workshop.FullName, workshop.WorkshopTrack, true, "")
	case models.WorkshopRejected:
		if err := h.mailer.SendWorkshopRejected(workshop.Email, workshop.FullName, workshop.WorkshopTrack, workshop.Institution, rejectMessage); err != nil {
			slog.Error("error sending workshop rejection email", "error", err, "workshop_id", workshop.ID)
		} else {
			emailSent = true
		}
		notificationSent = h.notifier.WorkshopApproval(workshop.Email, workshop.FullName, workshop.WorkshopTrack, false, rejectMessage)
	}

	writeJSON(w, http.StatusOK, WorkshopApprovalResponse{
		Success:          true,
		Data:             updated,
		EmailSent:        emailSent,
		NotificationSent: notificationSent,
	})
}

// GET /api/workshop
type WorkshopListResponse struct {
	Success bool               `json:"success"`
	Data    []*models.Workshop `json:"data"`
	Total   int                `json:"total"`
}

func (h *WorkshopHandler) List(w http.ResponseWriter, r *http.Request) {
	workshops, err := h.workshops.FindAll()
	if err != nil {
		slog.Error("error fetching workshop registrations", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, WorkshopListResponse{
		Success: true,
		Data:    workshops,
		Total:   len(workshops),
	})
}

// GET /api/workshop/stats
type WorkshopStatsResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    *models.WorkshopStats `json:"data"`
}

func (h *WorkshopHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.workshops.Stats()
	if err != nil {
		slog.Error("error fetching workshop stats", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, WorkshopStatsResponse{
		Success: true,
		Message: "Workshop statistics fetched successfully",
		Data:    stats,
	})
}
