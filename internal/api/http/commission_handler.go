package http

import (
	"net/http"

	"givehub-backend/internal/service"
)

// CommissionHandler exposes the platform commission rate
type CommissionHandler struct {
	policy service.CommissionPolicy
}

func NewCommissionHandler(policy service.CommissionPolicy) *CommissionHandler {
	return &CommissionHandler{policy: policy}
}

type commissionResponse struct {
	Rate float64 `json:"rate"`
}

type setCommissionRequest struct {
	Rate float64 `json:"rate"`
}

// GetRate handles GET /api/v1/commission
func (h *CommissionHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.policy.CurrentRate(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commissionResponse{Rate: rate})
}

// SetRate handles PUT /api/v1/commission, admin only
func (h *CommissionHandler) SetRate(w http.ResponseWriter, r *http.Request) {
	var req setCommissionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.policy.SetRate(r.Context(), CallerID(r), req.Rate); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commissionResponse{Rate: req.Rate})
}
