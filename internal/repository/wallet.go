package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/parsapay/checkout/internal/domain/wallet"
	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/httpclient"
)

// walletRepository talks to the wallet balance service over HTTP
type walletRepository struct {
	RepositoryParams
	baseURL string
}

func (r *walletRepository) GetBalance(ctx context.Context, userID string) (*wallet.Balance, error) {
	resp, err := r.Client.Send(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/v1/wallets/%s/balance", r.baseURL, url.PathEscape(userID)),
	})
	if err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok && httpErr.StatusCode == http.StatusNotFound {
			return nil, ierr.NewError("wallet not found").
				WithHintf("No wallet exists for user %s", userID).
				WithReportableDetails(map[string]any{"user_id": userID}).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}

	var balance wallet.Balance
	if err := json.Unmarshal(resp.Body, &balance); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The wallet service returned an unreadable response").
			Mark(ierr.ErrHTTPClient)
	}
	return &balance, nil
}
