package http

import (
	"net/http"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/service"

	"github.com/gorilla/mux"
)

// EarningHandler handles the courier's earnings ledger and the payout flow
type EarningHandler struct {
	earningSvc service.EarningService
}

func NewEarningHandler(earningSvc service.EarningService) *EarningHandler {
	return &EarningHandler{earningSvc: earningSvc}
}

type requestPayoutRequest struct {
	AmountCents int32               `json:"amount_cents"`
	Method      domain.PayoutMethod `json:"method"`
}

type requestPayoutResponse struct {
	Request  *domain.PayoutRequest `json:"request"`
	Earnings []domain.Earning      `json:"earnings"`
}

type approvePayoutRequest struct {
	TransactionID string `json:"transaction_id"`
}

type rejectPayoutRequest struct {
	Reason string `json:"reason"`
}

// GetSummary handles GET /api/v1/earnings/summary
func (h *EarningHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.earningSvc.GetSummary(r.Context(), CallerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ListEarnings handles GET /api/v1/earnings
func (h *EarningHandler) ListEarnings(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	earnings, total, err := h.earningSvc.ListEarnings(r.Context(), CallerID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: earnings, Total: total, Page: page})
}

// RequestPayout handles POST /api/v1/payouts
func (h *EarningHandler) RequestPayout(w http.ResponseWriter, r *http.Request) {
	var req requestPayoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	payout, earnings, err := h.earningSvc.RequestPayout(r.Context(), CallerID(r), req.AmountCents, req.Method)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, requestPayoutResponse{Request: payout, Earnings: earnings})
}

// ApprovePayout handles POST /api/v1/earnings/{earning_id}/payout/approve,
// admin only
func (h *EarningHandler) ApprovePayout(w http.ResponseWriter, r *http.Request) {
	earningID, ok := pathID(mux.Vars(r), "earning_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid earning id"})
		return
	}

	var req approvePayoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	earning, err := h.earningSvc.ApprovePayout(r.Context(), CallerID(r), earningID, req.TransactionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, earning)
}

// RejectPayout handles POST /api/v1/earnings/{earning_id}/payout/reject,
// admin only
func (h *EarningHandler) RejectPayout(w http.ResponseWriter, r *http.Request) {
	earningID, ok := pathID(mux.Vars(r), "earning_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid earning id"})
		return
	}

	var req rejectPayoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	earning, err := h.earningSvc.RejectPayout(r.Context(), CallerID(r), earningID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, earning)
}
