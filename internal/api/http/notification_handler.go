package http

import (
	"net/http"

	"givehub-backend/internal/service"

	"github.com/gorilla/mux"
)

// NotificationHandler handles the in-app notification feed
type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

// ListNotifications handles GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	notes, total, err := h.noteSvc.GetNotifications(r.Context(), CallerID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: notes, Total: total, Page: page})
}

// MarkAsRead handles POST /api/v1/notifications/{notification_id}/read
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	noteID, ok := pathID(mux.Vars(r), "notification_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid notification id"})
		return
	}

	if err := h.noteSvc.MarkAsRead(r.Context(), CallerID(r), noteID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
