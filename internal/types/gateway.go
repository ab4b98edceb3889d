package types

import (
	"slices"

	ierr "github.com/parsapay/checkout/internal/errors"
)

// PaymentGatewayType represents the type of payment gateway
type PaymentGatewayType string

const (
	// PaymentGatewayTypeWallet is the internal credit wallet
	PaymentGatewayTypeWallet PaymentGatewayType = "wallet"
	// PaymentGatewayTypeZarinpal is the Zarinpal bank gateway
	PaymentGatewayTypeZarinpal PaymentGatewayType = "zarinpal"
	// PaymentGatewayTypeMellat is the Mellat bank gateway
	PaymentGatewayTypeMellat PaymentGatewayType = "mellat"
	// PaymentGatewayTypeBankTransfer is a manual card-to-card / SHEBA transfer
	PaymentGatewayTypeBankTransfer PaymentGatewayType = "bank_transfer"
	// PaymentGatewayTypeCrypto is the crypto payment processor
	PaymentGatewayTypeCrypto PaymentGatewayType = "crypto"
)

func (p PaymentGatewayType) String() string {
	return string(p)
}

func (p PaymentGatewayType) Validate() error {
	switch p {
	case PaymentGatewayTypeWallet,
		PaymentGatewayTypeZarinpal,
		PaymentGatewayTypeMellat,
		PaymentGatewayTypeBankTransfer,
		PaymentGatewayTypeCrypto:
		return nil
	default:
		return ierr.NewError("invalid payment gateway type").
			WithHint("Please provide a valid payment gateway type").
			WithReportableDetails(map[string]any{
				"allowed": []PaymentGatewayType{
					PaymentGatewayTypeWallet,
					PaymentGatewayTypeZarinpal,
					PaymentGatewayTypeMellat,
					PaymentGatewayTypeBankTransfer,
					PaymentGatewayTypeCrypto,
				},
			}).
			Mark(ierr.ErrValidation)
	}
}

// IneligibilityReason annotates a gateway that remains listed but cannot be
// used for the quoted amount. Machine readable so the UI can localize it.
type IneligibilityReason string

const (
	IneligibilityReasonUnhealthy                 IneligibilityReason = "GATEWAY_UNHEALTHY"
	IneligibilityReasonAmountOutOfRange          IneligibilityReason = "AMOUNT_OUT_OF_RANGE"
	IneligibilityReasonInsufficientWalletBalance IneligibilityReason = "INSUFFICIENT_WALLET_BALANCE"
)

func (r IneligibilityReason) String() string {
	return string(r)
}

func (r IneligibilityReason) Validate() error {
	allowedValues := []string{
		string(IneligibilityReasonUnhealthy),
		string(IneligibilityReasonAmountOutOfRange),
		string(IneligibilityReasonInsufficientWalletBalance),
	}
	if !slices.Contains(allowedValues, string(r)) {
		return ierr.NewError("invalid ineligibility reason").
			WithHint("Please provide a valid ineligibility reason").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// FeeScheduleType represents how a gateway fee is computed
type FeeScheduleType string

const (
	FeeScheduleTypeFlat       FeeScheduleType = "flat"
	FeeScheduleTypePercentage FeeScheduleType = "percentage"
)

func (t FeeScheduleType) String() string {
	return string(t)
}

func (t FeeScheduleType) Validate() error {
	allowedValues := []string{string(FeeScheduleTypeFlat), string(FeeScheduleTypePercentage)}
	if !slices.Contains(allowedValues, string(t)) {
		return ierr.NewError("invalid fee schedule type").
			WithHint("Fee schedule type must be either flat or percentage").
			Mark(ierr.ErrValidation)
	}
	return nil
}
