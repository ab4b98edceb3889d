package service

import (
	"github.com/shopspring/decimal"

	ierr "github.com/parsapay/checkout/internal/errors"
)

// parseRate parses a configured rate string into a decimal
func parseRate(raw string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHint("Tax and fee rates must be decimal strings").
			WithReportableDetails(map[string]any{
				"rate": raw,
			}).
			Mark(ierr.ErrValidation)
	}
	return rate, nil
}
