package dto

import (
	"github.com/parsapay/checkout/internal/service"
	"github.com/parsapay/checkout/internal/types"
)

// ListGatewaysRequest annotates the catalog for an amount supplied as
// query parameters
type ListGatewaysRequest struct {
	Amount   int64  `form:"amount" binding:"gte=0"`
	Currency string `form:"currency"`
}

// ListGatewaysResponse is the annotated catalog for the requested amount
type ListGatewaysResponse struct {
	Amount   types.Money             `json:"amount"`
	Gateways []RankedGatewayResponse `json:"gateways"`
}

// ToListGatewaysResponse converts ranked gateways into the list response
func ToListGatewaysResponse(amount types.Money, ranked []*service.RankedGateway) *ListGatewaysResponse {
	gateways := make([]RankedGatewayResponse, 0, len(ranked))
	for _, g := range ranked {
		gateways = append(gateways, RankedGatewayResponse{
			Type:                g.Gateway.Type,
			DisplayName:         g.Gateway.DisplayName,
			Eligible:            g.Eligible,
			IneligibilityReason: g.IneligibilityReason,
			Fee:                 g.Fee,
			PayableAmount:       g.PayableAmount,
			InstantConfirmation: g.Gateway.Features.InstantConfirmation,
		})
	}
	return &ListGatewaysResponse{
		Amount:   amount,
		Gateways: gateways,
	}
}
