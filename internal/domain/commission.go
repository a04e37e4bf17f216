package domain

import "time"

// CommissionRate is one version of the platform commission setting. Rows are
// append-only; the rate in force is the newest one whose EffectiveFrom is in
// the past. Earnings snapshot the rate at creation, so superseded rows only
// matter for audit.
type CommissionRate struct {
	ID            int32     `json:"id"`
	Rate          float64   `json:"rate"` // fraction of gross, in [0,1]
	EffectiveFrom time.Time `json:"effective_from"`
	CreatedBy     int32     `json:"created_by"`
	CreatedOn     time.Time `json:"created_on"`
}
