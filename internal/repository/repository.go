package repository

import (
	"context"
	"time"

	"givehub-backend/internal/domain"
)

type UserRepository interface {
	// Create exists for the external registration layer and test fixtures;
	// the matching core never creates users itself.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	ListAdmins(ctx context.Context) ([]domain.User, error)
}

type ItemRepository interface {
	// Create exists for the external CRUD layer and test fixtures.
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id int32) (*domain.Item, error)
	ListAvailable(ctx context.Context, page, pageSize int32) ([]domain.Item, int32, error)
}

type OfferRepository interface {
	// Create inserts a PENDING offer. A unique-violation against the active
	// offer index surfaces as domain.ErrDuplicateOffer.
	Create(ctx context.Context, offer *domain.Offer) error
	GetByID(ctx context.Context, id int32) (*domain.Offer, error)
	HasActiveOffer(ctx context.Context, itemID, courierID int32) (bool, error)
	// ApproveWithDelivery runs the approval unit atomically: the offer moves
	// PENDING→APPROVED, the item AVAILABLE→ASSIGNED, the delivery row is
	// inserted and linked back, and sibling PENDING offers on the item are
	// rejected. Guard losses surface as domain.ErrOfferNotPending or
	// domain.ErrItemUnavailable with nothing applied.
	ApproveWithDelivery(ctx context.Context, offerID int32, delivery *domain.Delivery) error
	// Reject moves PENDING→REJECTED, recording the reason. The item is left
	// untouched.
	Reject(ctx context.Context, offerID int32, reason string) error
	// MarkExpired sweeps offers with status PENDING and expires_at before
	// now to EXPIRED, returning how many rows were reaped.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
	ListByItem(ctx context.Context, itemID int32) ([]domain.Offer, error)
	ListByCourier(ctx context.Context, courierID int32, page, pageSize int32) ([]domain.Offer, int32, error)
}

type DeliveryRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Delivery, error)
	// Advance applies one forward edge with a compare-and-swap on the current
	// status. A guard loss surfaces as domain.ErrConflict.
	Advance(ctx context.Context, id int32, from, to domain.DeliveryStatus, at time.Time) error
	// Complete atomically moves the delivery IN_TRANSIT→COMPLETED and the
	// item to COMPLETED. Earnings settlement is a separate, recoverable step.
	Complete(ctx context.Context, id int32, at time.Time) error
	// Cancel atomically moves a non-terminal delivery to CANCELLED and
	// reverts the item ASSIGNED→AVAILABLE so new offers can be made.
	Cancel(ctx context.Context, id, cancelledBy int32, reason string) error
	ListByCourier(ctx context.Context, courierID int32, status string, page, pageSize int32) ([]domain.Delivery, int32, error)
	// ListUnsettledCompleted returns completed deliveries with no earning
	// row yet, for the settlement recovery job.
	ListUnsettledCompleted(ctx context.Context, limit int32) ([]domain.Delivery, error)
}

type EarningRepository interface {
	// CreateSettlement inserts the earning and bumps the user's counters in
	// one transaction. A second call for the same delivery is a no-op that
	// loads the existing row into e; created reports which happened.
	CreateSettlement(ctx context.Context, e *domain.Earning) (created bool, err error)
	GetByID(ctx context.Context, id int32) (*domain.Earning, error)
	GetByDeliveryID(ctx context.Context, deliveryID int32) (*domain.Earning, error)
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Earning, int32, error)
	GetSummary(ctx context.Context, userID int32) (*domain.EarningsSummary, error)
	// RequestPayout serializes on the user row, re-validates available
	// balance, the single-open-request rule, and the trailing-24h cap inside
	// the transaction, then reserves AVAILABLE earnings oldest-first until
	// amountCents is covered. Violations surface as the corresponding
	// domain policy errors.
	RequestPayout(ctx context.Context, userID, amountCents int32, method domain.PayoutMethod, requestID string, dailyCapCents int32) ([]domain.Earning, error)
	// ApprovePayout moves REQUESTED→PAID, records approver and transaction
	// id (globally unique), and debits the user's pending counter.
	ApprovePayout(ctx context.Context, earningID, adminID int32, transactionID string) (*domain.Earning, error)
	// RejectPayout moves REQUESTED→AVAILABLE, recording the reason. The
	// pending counter is untouched: it is only debited when an earning is
	// actually paid.
	RejectPayout(ctx context.Context, earningID, adminID int32, reason string) (*domain.Earning, error)
	// ReleaseCleared moves PENDING earnings created before the cutoff to
	// AVAILABLE, returning how many were released.
	ReleaseCleared(ctx context.Context, before time.Time) (int64, error)
}

type CommissionRepository interface {
	// RateAt returns the newest rate row effective at the given instant.
	RateAt(ctx context.Context, at time.Time) (*domain.CommissionRate, error)
	Insert(ctx context.Context, rate *domain.CommissionRate) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
