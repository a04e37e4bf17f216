package domain

import "time"

type OfferKind string

const (
	OfferKindDelivery  OfferKind = "DELIVERY"
	OfferKindVolunteer OfferKind = "VOLUNTEER"
)

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "PENDING"
	OfferStatusApproved OfferStatus = "APPROVED"
	OfferStatusRejected OfferStatus = "REJECTED"
	OfferStatusExpired  OfferStatus = "EXPIRED"
)

// OfferTTL is how long an offer stays approvable after creation. Offers past
// ExpiresAt are treated as expired even before the reaper has run.
const OfferTTL = 24 * time.Hour

// Offer is a courier's bid to fulfill an item. EstimatedEarningCents is the
// gross amount before commission; commission is applied only at settlement.
type Offer struct {
	ID                    int32       `json:"id"`
	Kind                  OfferKind   `json:"kind"`
	ItemID                int32       `json:"item_id"`
	OwnerID               int32       `json:"owner_id"`
	CourierID             int32       `json:"courier_id"`
	Message               string      `json:"message"`
	EstimatedEarningCents int32       `json:"estimated_earning_cents"`
	Status                OfferStatus `json:"status"`
	RejectionReason       string      `json:"rejection_reason,omitempty"`
	OfferedAt             time.Time   `json:"offered_at"`
	ExpiresAt             time.Time   `json:"expires_at"`
	DeliveryID            *int32      `json:"delivery_id,omitempty"`
	CreatedOn             time.Time   `json:"created_on"`
	UpdatedOn             time.Time   `json:"updated_on"`
}

// ExpiredAt reports whether the offer is past its TTL at the given instant,
// regardless of the stored status.
func (o *Offer) ExpiredAt(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// OfferKindFor returns the offer kind a fulfillment option calls for.
// Self-pickup items take no offers at all.
func OfferKindFor(opt FulfillmentOption) (OfferKind, bool) {
	switch opt {
	case FulfillmentVolunteer:
		return OfferKindVolunteer, true
	case FulfillmentPaid:
		return OfferKindDelivery, true
	default:
		return "", false
	}
}
