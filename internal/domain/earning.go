package domain

import (
	"math"
	"time"
)

type EarningStatus string

const (
	// EarningStatusPending: settled but still inside the clearing hold.
	EarningStatusPending EarningStatus = "PENDING"
	// EarningStatusAvailable: cleared and payable.
	EarningStatusAvailable EarningStatus = "AVAILABLE"
	// EarningStatusRequested: reserved by an open payout request.
	EarningStatusRequested EarningStatus = "REQUESTED"
	// EarningStatusPaid: paid out, terminal.
	EarningStatusPaid EarningStatus = "PAID"
)

type PayoutMethod string

const (
	PayoutMethodBankTransfer PayoutMethod = "BANK_TRANSFER"
	PayoutMethodPaypal       PayoutMethod = "PAYPAL"
	PayoutMethodWallet       PayoutMethod = "WALLET"
)

// PayoutRequest is the payout sub-record embedded in an earning. RequestID
// groups the earnings covered by one RequestPayout call.
type PayoutRequest struct {
	RequestID     string       `json:"request_id"`
	Method        PayoutMethod `json:"method"`
	AmountCents   int32        `json:"amount_cents"`
	RequestedAt   time.Time    `json:"requested_at"`
	ApprovedAt    *time.Time   `json:"approved_at,omitempty"`
	RejectedAt    *time.Time   `json:"rejected_at,omitempty"`
	RejectReason  string       `json:"reject_reason,omitempty"`
	ApproverID    *int32       `json:"approver_id,omitempty"`
	TransactionID string       `json:"transaction_id,omitempty"`
}

// Earning is the settlement record created once per completed delivery.
// CommissionRate is a snapshot taken at creation and never recomputed, so
// later policy changes cannot retroactively alter settled amounts.
// NetAmountCents + CommissionAmountCents == GrossAmountCents always.
type Earning struct {
	ID                    int32          `json:"id"`
	DeliveryID            int32          `json:"delivery_id"`
	UserID                int32          `json:"user_id"`
	GrossAmountCents      int32          `json:"gross_amount_cents"`
	CommissionRate        float64        `json:"commission_rate"`
	CommissionAmountCents int32          `json:"commission_amount_cents"`
	NetAmountCents        int32          `json:"net_amount_cents"`
	Status                EarningStatus  `json:"status"`
	Payout                *PayoutRequest `json:"payout,omitempty"`
	CreatedOn             time.Time      `json:"created_on"`
	UpdatedOn             time.Time      `json:"updated_on"`
}

// SplitCommission applies rate to a gross amount, returning the commission
// and net parts. Commission is rounded half away from zero; the net is the
// remainder so the two always sum back to gross.
func SplitCommission(grossCents int32, rate float64) (commissionCents, netCents int32) {
	commissionCents = int32(math.Round(float64(grossCents) * rate))
	netCents = grossCents - commissionCents
	return commissionCents, netCents
}

// ValidPayoutMethod reports whether m is in the supported closed set.
func ValidPayoutMethod(m PayoutMethod) bool {
	switch m {
	case PayoutMethodBankTransfer, PayoutMethodPaypal, PayoutMethodWallet:
		return true
	}
	return false
}

// EarningsSummary is the per-user read projection over the earnings ledger.
type EarningsSummary struct {
	PendingEarningsCents int32                   `json:"pending_earnings_cents"`
	TotalEarningsCents   int32                   `json:"total_earnings_cents"`
	AvailableCents       int32                   `json:"available_cents"`
	StatusCount          map[EarningStatus]int32 `json:"status_count"`
}
