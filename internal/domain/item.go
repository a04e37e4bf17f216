package domain

import "time"

type ItemKind string

const (
	ItemKindDonation ItemKind = "DONATION"
	ItemKindRequest  ItemKind = "REQUEST"
)

type FulfillmentOption string

const (
	FulfillmentSelf      FulfillmentOption = "SELF"
	FulfillmentVolunteer FulfillmentOption = "VOLUNTEER"
	FulfillmentPaid      FulfillmentOption = "PAID"
)

type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "AVAILABLE"
	ItemStatusAssigned  ItemStatus = "ASSIGNED"
	ItemStatusCompleted ItemStatus = "COMPLETED"
	ItemStatusCancelled ItemStatus = "CANCELLED"
)

// Item is a donation or an open request eligible for fulfillment. Items are
// created and edited outside this service; the matching core only reads them
// and moves their status.
type Item struct {
	ID                 int32             `json:"id"`
	Kind               ItemKind          `json:"kind"`
	OwnerID            int32             `json:"owner_id"`
	Title              string            `json:"title"`
	FulfillmentOption  FulfillmentOption `json:"fulfillment_option"`
	PaymentAmountCents *int32            `json:"payment_amount_cents,omitempty"`
	PaymentRef         *string           `json:"payment_ref,omitempty"`
	PickupAddress      string            `json:"pickup_address"`
	DropoffAddress     string            `json:"dropoff_address"`
	DistanceKm         float64           `json:"distance_km"`
	Status             ItemStatus        `json:"status"`
	AssignedTo         *int32            `json:"assigned_to,omitempty"`
	CreatedOn          time.Time         `json:"created_on"`
	UpdatedOn          time.Time         `json:"updated_on"`
}

// Terminal reports whether the item can no longer change status.
func (s ItemStatus) Terminal() bool {
	return s == ItemStatusCompleted || s == ItemStatusCancelled
}
