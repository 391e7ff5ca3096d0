package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hackdash/internal/db"
	"hackdash/internal/models"
)

type HistoryHandler struct {
	history *db.HistoryRepository
}

func NewHistoryHandler(history *db.HistoryRepository) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// GET /api/history/{entityId}
type HistoryResponse struct {
	Success bool                         `json:"success"`
	History []*models.AdminActionHistory `json:"history"`
}

func (h *HistoryHandler) GetEntityHistory(w http.ResponseWriter, r *http.Request) {
	entityID := chi.URLParam(r, "entityId")
	if entityID == "" {
		badRequest(w, "Entity ID is required")
		return
	}

	history, err := h.history.FindByEntityID(entityID)
	if err != nil {
		slog.Error("error fetching entity history", "error", err, "entity_id", entityID)
		internalError(w)
		return
	}
	if history == nil {
		history = []*models.AdminActionHistory{}
	}

	writeJSON(w, http.StatusOK, HistoryResponse{
		Success: true,
		History: history,
	})
}
