package http

import (
	"net/http"

	"givehub-backend/internal/security"
	"givehub-backend/internal/service"

	"github.com/gorilla/mux"
)

// Handlers bundles everything the router needs
type Handlers struct {
	Items         *ItemHandler
	Offers        *OfferHandler
	Deliveries    *DeliveryHandler
	Earnings      *EarningHandler
	Commission    *CommissionHandler
	Notifications *NotificationHandler
}

// NewHandlers builds the handler set from the service layer
func NewHandlers(
	itemSvc service.ItemService,
	offerSvc service.OfferService,
	deliverySvc service.DeliveryService,
	earningSvc service.EarningService,
	policy service.CommissionPolicy,
	noteSvc service.NotificationService,
) *Handlers {
	return &Handlers{
		Items:         NewItemHandler(itemSvc),
		Offers:        NewOfferHandler(offerSvc),
		Deliveries:    NewDeliveryHandler(deliverySvc),
		Earnings:      NewEarningHandler(earningSvc),
		Commission:    NewCommissionHandler(policy),
		Notifications: NewNotificationHandler(noteSvc),
	}
}

// NewRouter wires all routes. Everything under /api/v1 sits behind the auth
// middleware; /health is public for probes.
func NewRouter(h *Handlers, tm security.TokenManager) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	auth := NewAuthMiddleware(tm)
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Handler)

	// Items
	api.HandleFunc("/items", h.Items.ListAvailableItems).Methods("GET")
	api.HandleFunc("/items/{item_id}", h.Items.GetItem).Methods("GET")

	// Offers
	api.HandleFunc("/items/{item_id}/offers", h.Offers.CreateOffer).Methods("POST")
	api.HandleFunc("/items/{item_id}/offers", h.Offers.ListItemOffers).Methods("GET")
	api.HandleFunc("/offers", h.Offers.ListMyOffers).Methods("GET")
	api.HandleFunc("/offers/{offer_id}/approve", h.Offers.ApproveOffer).Methods("POST")
	api.HandleFunc("/offers/{offer_id}/reject", h.Offers.RejectOffer).Methods("POST")

	// Deliveries
	api.HandleFunc("/deliveries", h.Deliveries.ListMyDeliveries).Methods("GET")
	api.HandleFunc("/deliveries/{delivery_id}", h.Deliveries.GetDelivery).Methods("GET")
	api.HandleFunc("/deliveries/{delivery_id}/advance", h.Deliveries.AdvanceDelivery).Methods("POST")
	api.HandleFunc("/deliveries/{delivery_id}/cancel", h.Deliveries.CancelDelivery).Methods("POST")

	// Earnings and payouts
	api.HandleFunc("/earnings", h.Earnings.ListEarnings).Methods("GET")
	api.HandleFunc("/earnings/summary", h.Earnings.GetSummary).Methods("GET")
	api.HandleFunc("/payouts", h.Earnings.RequestPayout).Methods("POST")
	api.HandleFunc("/earnings/{earning_id}/payout/approve", h.Earnings.ApprovePayout).Methods("POST")
	api.HandleFunc("/earnings/{earning_id}/payout/reject", h.Earnings.RejectPayout).Methods("POST")

	// Commission policy
	api.HandleFunc("/commission", h.Commission.GetRate).Methods("GET")
	api.HandleFunc("/commission", h.Commission.SetRate).Methods("PUT")

	// Notifications
	api.HandleFunc("/notifications", h.Notifications.ListNotifications).Methods("GET")
	api.HandleFunc("/notifications/{notification_id}/read", h.Notifications.MarkAsRead).Methods("POST")

	return router
}
