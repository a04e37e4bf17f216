package http

import (
	"net/http"

	"givehub-backend/internal/domain"
	"givehub-backend/internal/service"

	"github.com/gorilla/mux"
)

// OfferHandler handles offer creation and the owner's approve/reject decisions
type OfferHandler struct {
	offerSvc service.OfferService
}

func NewOfferHandler(offerSvc service.OfferService) *OfferHandler {
	return &OfferHandler{offerSvc: offerSvc}
}

type createOfferRequest struct {
	Kind    domain.OfferKind `json:"kind"`
	Message string           `json:"message"`
}

type rejectOfferRequest struct {
	Reason string `json:"reason"`
}

// CreateOffer handles POST /api/v1/items/{item_id}/offers
func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(mux.Vars(r), "item_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid item id"})
		return
	}

	var req createOfferRequest
	if !decodeBody(w, r, &req) {
		return
	}

	offer, err := h.offerSvc.CreateOffer(r.Context(), CallerID(r), itemID, req.Kind, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, offer)
}

// ApproveOffer handles POST /api/v1/offers/{offer_id}/approve and returns the
// delivery created by the approval
func (h *OfferHandler) ApproveOffer(w http.ResponseWriter, r *http.Request) {
	offerID, ok := pathID(mux.Vars(r), "offer_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid offer id"})
		return
	}

	delivery, err := h.offerSvc.ApproveOffer(r.Context(), CallerID(r), offerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, delivery)
}

// RejectOffer handles POST /api/v1/offers/{offer_id}/reject
func (h *OfferHandler) RejectOffer(w http.ResponseWriter, r *http.Request) {
	offerID, ok := pathID(mux.Vars(r), "offer_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid offer id"})
		return
	}

	var req rejectOfferRequest
	if !decodeBody(w, r, &req) {
		return
	}

	offer, err := h.offerSvc.RejectOffer(r.Context(), CallerID(r), offerID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// ListItemOffers handles GET /api/v1/items/{item_id}/offers, owner only
func (h *OfferHandler) ListItemOffers(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(mux.Vars(r), "item_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid item id"})
		return
	}

	offers, err := h.offerSvc.ListItemOffers(r.Context(), CallerID(r), itemID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

// ListMyOffers handles GET /api/v1/offers
func (h *OfferHandler) ListMyOffers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	offers, total, err := h.offerSvc.ListMyOffers(r.Context(), CallerID(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: offers, Total: total, Page: page})
}
