package domain

import "time"

type DeliveryStatus string

const (
	DeliveryStatusAssigned  DeliveryStatus = "ASSIGNED"
	DeliveryStatusAccepted  DeliveryStatus = "ACCEPTED"
	DeliveryStatusPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryStatusInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryStatusCompleted DeliveryStatus = "COMPLETED"
	DeliveryStatusCancelled DeliveryStatus = "CANCELLED"
)

// Delivery tracks the physical fulfillment created from an approved offer.
// Exactly one delivery exists per approved offer.
type Delivery struct {
	ID             int32          `json:"id"`
	ItemID         int32          `json:"item_id"`
	OfferID        int32          `json:"offer_id"`
	CourierID      int32          `json:"courier_id"`
	OwnerID        int32          `json:"owner_id"`
	PickupAddress  string         `json:"pickup_address"`
	DropoffAddress string         `json:"dropoff_address"`
	FeeCents       int32          `json:"fee_cents"` // gross, commission applied at settlement
	Status         DeliveryStatus `json:"status"`
	CancelReason   string         `json:"cancel_reason,omitempty"`
	CancelledBy    *int32         `json:"cancelled_by,omitempty"`
	AcceptedAt     *time.Time     `json:"accepted_at,omitempty"`
	PickedUpAt     *time.Time     `json:"picked_up_at,omitempty"`
	InTransitAt    *time.Time     `json:"in_transit_at,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	CreatedOn      time.Time      `json:"created_on"`
	UpdatedOn      time.Time      `json:"updated_on"`
}

func (s DeliveryStatus) Terminal() bool {
	return s == DeliveryStatusCompleted || s == DeliveryStatusCancelled
}

// deliveryEdges holds the legal forward progression. Cancellation is handled
// separately and is reachable from any non-terminal state.
var deliveryEdges = map[DeliveryStatus]DeliveryStatus{
	DeliveryStatusAssigned:  DeliveryStatusAccepted,
	DeliveryStatusAccepted:  DeliveryStatusPickedUp,
	DeliveryStatusPickedUp:  DeliveryStatusInTransit,
	DeliveryStatusInTransit: DeliveryStatusCompleted,
}

// CanAdvance reports whether from → to is a legal progress transition.
func (s DeliveryStatus) CanAdvance(to DeliveryStatus) bool {
	next, ok := deliveryEdges[s]
	return ok && next == to
}
