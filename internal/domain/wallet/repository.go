package wallet

import (
	"context"
)

// Repository is the wallet balance collaborator
type Repository interface {
	GetBalance(ctx context.Context, userID string) (*Balance, error)
}
