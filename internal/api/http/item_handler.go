package http

import (
	"net/http"

	"givehub-backend/internal/service"

	"github.com/gorilla/mux"
)

// ItemHandler exposes read access to the items board
type ItemHandler struct {
	itemSvc service.ItemService
}

func NewItemHandler(itemSvc service.ItemService) *ItemHandler {
	return &ItemHandler{itemSvc: itemSvc}
}

// GetItem handles GET /api/v1/items/{item_id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(mux.Vars(r), "item_id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_REQUEST", Message: "invalid item id"})
		return
	}

	item, err := h.itemSvc.GetItem(r.Context(), itemID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// ListAvailableItems handles GET /api/v1/items
func (h *ItemHandler) ListAvailableItems(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	items, total, err := h.itemSvc.ListAvailableItems(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: total, Page: page})
}
