package types

import (
	"slices"

	ierr "github.com/parsapay/checkout/internal/errors"
)

// ItemType represents the kind of purchasable item in a cart line
type ItemType string

const (
	ItemTypeCourse   ItemType = "course"
	ItemTypeWorkshop ItemType = "workshop"
	ItemTypeProduct  ItemType = "product"
)

func (t ItemType) String() string {
	return string(t)
}

func (t ItemType) Validate() error {
	allowedValues := []string{
		string(ItemTypeCourse),
		string(ItemTypeWorkshop),
		string(ItemTypeProduct),
	}
	if !slices.Contains(allowedValues, string(t)) {
		return ierr.NewError("invalid item type").
			WithHint("Item type must be one of course, workshop or product").
			Mark(ierr.ErrValidation)
	}
	return nil
}
