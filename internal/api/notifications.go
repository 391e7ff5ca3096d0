package api

import (
	"net/http"

	"hackdash/internal/sse"
)

type NotificationStreamHandler struct {
	hub *sse.Hub
}

func NewNotificationStreamHandler(hub *sse.Hub) *NotificationStreamHandler {
	return &NotificationStreamHandler{hub: hub}
}

// GET /api/notifications/stream?userId=...
//
// Long-lived text/event-stream connection. The subscription is removed when
// the client disconnects or when a newer connection for the same user
// replaces it.
func (h *NotificationStreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		badRequest(w, "Missing userId parameter")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		internalError(w)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sub := h.hub.Subscribe(userID)
	defer h.hub.Unsubscribe(sub)

	connected := sse.NewEvent("connected", nil)
	connected.Message = "SSE connection established"
	frame, err := connected.Frame()
	if err != nil {
		return
	}
	if _, err := w.Write(frame); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-sub.Done():
			return
		case frame, ok := <-sub.Events():
			if !ok {
				return
			}
			if _, err := w.Write(frame); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
