package wallet

import (
	"time"

	"github.com/parsapay/checkout/internal/types"
)

// Balance is a point-in-time view of a user's wallet balance as reported
// by the wallet collaborator
type Balance struct {
	UserID    string      `json:"user_id"`
	Available types.Money `json:"available"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Covers reports whether the balance can pay the given amount in full
func (b *Balance) Covers(amount types.Money) bool {
	return !b.Available.LessThan(amount)
}
