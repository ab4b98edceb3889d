package types

import (
	"github.com/shopspring/decimal"

	ierr "github.com/parsapay/checkout/internal/errors"
)

// DefaultCurrency is the currency assumed when a request does not name one.
// Amounts are integer Toman, which has no sub-unit, so the minor unit and
// the major unit coincide.
const DefaultCurrency = "IRT"

// Money is an integer amount in minor currency units. All currency
// arithmetic in the application must go through this type; percentage
// results are floored, never rounded up, so totals can never overcharge.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// NewMoney creates a Money value in the given currency
func NewMoney(amount int64, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: amount, Currency: currency}
}

// ZeroMoney returns a zero amount in the given currency
func ZeroMoney(currency string) Money {
	return NewMoney(0, currency)
}

// Validate checks the money value is well formed
func (m Money) Validate() error {
	if m.Currency == "" {
		return ierr.NewError("currency is required").
			WithHint("Amount must carry a currency code").
			Mark(ierr.ErrValidation)
	}
	if m.Amount < 0 {
		return ierr.NewError("negative amount").
			WithHint("Amounts must be zero or positive").
			WithReportableDetails(map[string]any{
				"amount":   m.Amount,
				"currency": m.Currency,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Add returns m + other. Currencies must match.
func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

// Sub returns m - other floored at zero. Money never goes negative; a
// discount larger than the base clamps the result to zero instead.
func (m Money) Sub(other Money) Money {
	amount := m.Amount - other.Amount
	if amount < 0 {
		amount = 0
	}
	return Money{Amount: amount, Currency: m.Currency}
}

// PercentageOf returns floor(amount * rate / 100). Rates are decimals so
// fractional percentages (e.g. 9.5%) stay exact until the final floor.
func (m Money) PercentageOf(rate decimal.Decimal) Money {
	amount := decimal.NewFromInt(m.Amount).
		Mul(rate).
		Div(decimal.NewFromInt(100)).
		Floor().
		IntPart()
	return Money{Amount: amount, Currency: m.Currency}
}

// Compare returns -1, 0 or 1 as m is less than, equal to or greater than
// other
func (m Money) Compare(other Money) int {
	switch {
	case m.Amount < other.Amount:
		return -1
	case m.Amount > other.Amount:
		return 1
	default:
		return 0
	}
}

// LessThan reports whether m < other
func (m Money) LessThan(other Money) bool {
	return m.Amount < other.Amount
}

// GreaterThan reports whether m > other
func (m Money) GreaterThan(other Money) bool {
	return m.Amount > other.Amount
}

// Equal reports whether the amounts and currencies match
func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// IsNegative reports whether the amount is negative. A negative amount can
// only be produced by constructing Money directly, never by Sub, so this is
// used by invariant checks.
func (m Money) IsNegative() bool {
	return m.Amount < 0
}

// Min returns the smaller of m and other
func (m Money) Min(other Money) Money {
	if m.Amount <= other.Amount {
		return m
	}
	return other
}

// SameCurrency reports whether both values share one currency
func (m Money) SameCurrency(other Money) bool {
	return m.Currency == other.Currency
}
