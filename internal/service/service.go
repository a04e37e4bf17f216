package service

import (
	"context"

	"givehub-backend/internal/domain"
)

type ItemService interface {
	GetItem(ctx context.Context, id int32) (*domain.Item, error)
	ListAvailableItems(ctx context.Context, page, pageSize int32) ([]domain.Item, int32, error)
}

type OfferService interface {
	CreateOffer(ctx context.Context, courierID, itemID int32, kind domain.OfferKind, message string) (*domain.Offer, error)
	ApproveOffer(ctx context.Context, ownerID, offerID int32) (*domain.Delivery, error)
	RejectOffer(ctx context.Context, ownerID, offerID int32, reason string) (*domain.Offer, error)
	ListItemOffers(ctx context.Context, ownerID, itemID int32) ([]domain.Offer, error)
	ListMyOffers(ctx context.Context, courierID int32, page, pageSize int32) ([]domain.Offer, int32, error)
}

type DeliveryService interface {
	AdvanceDelivery(ctx context.Context, courierID, deliveryID int32, next domain.DeliveryStatus) (*domain.Delivery, error)
	CancelDelivery(ctx context.Context, actorID, deliveryID int32, reason string) (*domain.Delivery, error)
	GetDelivery(ctx context.Context, userID, deliveryID int32) (*domain.Delivery, error)
	ListMyDeliveries(ctx context.Context, courierID int32, status string, page, pageSize int32) ([]domain.Delivery, int32, error)
}

type EarningService interface {
	// SettleDelivery creates the earning for a completed delivery. Safe to
	// call more than once for the same delivery; later calls return the
	// existing record.
	SettleDelivery(ctx context.Context, delivery *domain.Delivery) (*domain.Earning, error)
	RequestPayout(ctx context.Context, userID, amountCents int32, method domain.PayoutMethod) (*domain.PayoutRequest, []domain.Earning, error)
	ApprovePayout(ctx context.Context, adminID, earningID int32, transactionID string) (*domain.Earning, error)
	RejectPayout(ctx context.Context, adminID, earningID int32, reason string) (*domain.Earning, error)
	GetSummary(ctx context.Context, userID int32) (*domain.EarningsSummary, error)
	ListEarnings(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Earning, int32, error)
}

// CommissionPolicy resolves the platform commission rate. CurrentRate is
// cheap to call; each earning snapshots the value it returns at settlement
// time, so later SetRate calls never alter settled earnings.
type CommissionPolicy interface {
	CurrentRate(ctx context.Context) (float64, error)
	SetRate(ctx context.Context, adminID int32, rate float64) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

// Notifier is the fire-and-forget fan-out entry point. Publish never blocks
// and never fails the calling transition; events are dropped (and logged)
// when the channel is saturated.
type Notifier interface {
	Publish(event domain.NotificationEvent)
}

// PaymentGateway is the external charge authority. Used only to confirm
// up-front payments on paid-option items before an offer is accepted; it is
// not part of the offer or earnings state machines.
type PaymentGateway interface {
	ChargeSucceeded(ctx context.Context, paymentRef string) (bool, error)
	Amount(ctx context.Context, paymentRef string) (int32, error)
}

// EmailSender is the outbound email channel behind the fan-out dispatcher.
type EmailSender interface {
	Send(ctx context.Context, toEmail, toName, subject, body string) error
}
