package domain

import "time"

// AdminAudience is the user id the shared admin channel is keyed on.
const AdminAudience int32 = 0

type EventName string

const (
	EventOfferCreated    EventName = "OFFER_CREATED"
	EventOfferApproved   EventName = "OFFER_APPROVED"
	EventOfferRejected   EventName = "OFFER_REJECTED"
	EventDeliveryUpdated EventName = "DELIVERY_UPDATED"
	EventEarningSettled  EventName = "EARNING_SETTLED"
	EventPayoutRequested EventName = "PAYOUT_REQUESTED"
	EventPayoutApproved  EventName = "PAYOUT_APPROVED"
	EventPayoutRejected  EventName = "PAYOUT_REJECTED"
)

type Notification struct {
	ID         int32             `json:"id"`
	UserID     int32             `json:"user_id"` // AdminAudience for the shared admin channel
	Event      EventName         `json:"event"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  time.Time         `json:"created_on"`
}

// NotificationEvent is the state-change record handed to the fan-out
// dispatcher after a transition commits. Recipients beyond the actor and
// counterparty (the admin audience) are added by the dispatcher itself.
type NotificationEvent struct {
	Event          EventName
	ActorID        int32
	CounterpartyID int32
	Title          string
	Message        string
	Attributes     map[string]string
}
