package http

import (
	"net/http"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/service"

	"github.com/gorilla/mux"
)

// DeliveryHandler handles the courier's delivery lifecycle
type DeliveryHandler struct {
	deliverySvc service.DeliveryService
}

func NewDeliveryHandler(deliverySvc service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliverySvc: deliverySvc}
}

type advanceDeliveryRequest struct {
	Status domain.DeliveryStatus `json:"status"`
}

type cancelDeliveryRequest struct {
	Reason string `json:"reason"`
}

// GetDelivery handles GET /api/v1/deliveries/{delivery_id}
func (h *DeliveryHandler) GetDelivery(w http.ResponseWriter, r *http.Request) {
	deliveryID, ok := pathID(mux.Vars(r), "delivery_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid delivery id"})
		return
	}

	delivery, err := h.deliverySvc.GetDelivery(r.Context(), CallerID(r), deliveryID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, delivery)
}

// AdvanceDelivery handles POST /api/v1/deliveries/{delivery_id}/advance
func (h *DeliveryHandler) AdvanceDelivery(w http.ResponseWriter, r *http.Request) {
	deliveryID, ok := pathID(mux.Vars(r), "delivery_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid delivery id"})
		return
	}

	var req advanceDeliveryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	delivery, err := h.deliverySvc.AdvanceDelivery(r.Context(), CallerID(r), deliveryID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, delivery)
}

// CancelDelivery handles POST /api/v1/deliveries/{delivery_id}/cancel
func (h *DeliveryHandler) CancelDelivery(w http.ResponseWriter, r *http.Request) {
	deliveryID, ok := pathID(mux.Vars(r), "delivery_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid delivery id"})
		return
	}

	var req cancelDeliveryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	delivery, err := h.deliverySvc.CancelDelivery(r.Context(), CallerID(r), deliveryID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, delivery)
}

// ListMyDeliveries handles GET /api/v1/deliveries with an optional status filter
func (h *DeliveryHandler) ListMyDeliveries(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")

	deliveries, total, err := h.deliverySvc.ListMyDeliveries(r.Context(), CallerID(r), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: deliveries, Total: total, Page: page})
}
