package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/parsapay/checkout/internal/domain/gateway"
	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/httpclient"
)

// gatewayRepository talks to the gateway status service over HTTP
type gatewayRepository struct {
	RepositoryParams
	baseURL string
}

type gatewayStatusResponse struct {
	Gateways []*gateway.Descriptor `json:"gateways"`
}

func (r *gatewayRepository) GetAvailableGateways(ctx context.Context) ([]*gateway.Descriptor, error) {
	resp, err := r.Client.Send(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/v1/gateways/status", r.baseURL),
	})
	if err != nil {
		if ierr.IsTimeout(err) {
			return nil, err
		}
		return nil, ierr.WithError(err).
			WithHint("The gateway status service is unavailable").
			Mark(ierr.ErrGatewayUnavailable)
	}

	var status gatewayStatusResponse
	if err := json.Unmarshal(resp.Body, &status); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The gateway status service returned an unreadable response").
			Mark(ierr.ErrGatewayUnavailable)
	}
	return status.Gateways, nil
}
