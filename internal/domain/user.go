package domain

import "time"

type UserRole string

const (
	UserRoleMember UserRole = "MEMBER"
	UserRoleAdmin  UserRole = "ADMIN"
)

// User carries the identity fields the matching core needs plus the two
// derived earning counters. Registration and profile editing live elsewhere.
// PendingEarningsCents must equal the sum of net amounts over the user's
// non-paid earnings; TotalEarningsCents over all earnings ever created.
// Both are mutated only by the earnings ledger.
type User struct {
	ID                   int32     `json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Role                 UserRole  `json:"role"`
	PendingEarningsCents int32     `json:"pending_earnings_cents"`
	TotalEarningsCents   int32     `json:"total_earnings_cents"`
	CreatedOn            time.Time `json:"created_on"`
	UpdatedOn            time.Time `json:"updated_on"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
