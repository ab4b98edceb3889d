package order

import (
	"github.com/samber/lo"

	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/types"
)

// LineItem is one purchasable entry in a cart
type LineItem struct {
	ItemID   string         `json:"item_id"`
	ItemType types.ItemType `json:"item_type"`
	Quantity int            `json:"quantity"`
}

// Snapshot is the immutable input to a pricing calculation. It is created
// per checkout attempt and discarded afterwards; nothing in the core
// mutates it.
type Snapshot struct {
	Subtotal types.Money `json:"subtotal"`
	Lines    []LineItem  `json:"lines"`
}

// NewSnapshot validates and freezes an order for pricing
func NewSnapshot(subtotal types.Money, lines []LineItem) (*Snapshot, error) {
	if err := subtotal.Validate(); err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := line.ItemType.Validate(); err != nil {
			return nil, err
		}
		if line.Quantity <= 0 {
			return nil, ierr.NewError("invalid line item quantity").
				WithHint("Quantity must be positive").
				WithReportableDetails(map[string]any{
					"item_id":  line.ItemID,
					"quantity": line.Quantity,
				}).
				Mark(ierr.ErrValidation)
		}
	}

	copied := make([]LineItem, len(lines))
	copy(copied, lines)
	return &Snapshot{Subtotal: subtotal, Lines: copied}, nil
}

// ContainsItemType reports whether any line carries one of the given types
func (s *Snapshot) ContainsItemType(itemTypes []types.ItemType) bool {
	return lo.SomeBy(s.Lines, func(line LineItem) bool {
		return lo.Contains(itemTypes, line.ItemType)
	})
}

// ContainsItem reports whether any line carries one of the given item IDs
func (s *Snapshot) ContainsItem(itemIDs []string) bool {
	return lo.SomeBy(s.Lines, func(line LineItem) bool {
		return lo.Contains(itemIDs, line.ItemID)
	})
}
