// Package profile holds marketplace profile records keyed by authenticated user id.
package profile

import "time"

// MaxDisplayNameLength is the display_name column width, in characters.
const MaxDisplayNameLength = 120

// Profile is the public-facing marketplace profile of a user.
type Profile struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	IsSeller    bool      `json:"is_seller"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Role returns "seller" or "buyer".
func (p Profile) Role() string {
	if p.IsSeller {
		return "seller"
	}
	return "buyer"
}
