package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/parsapay/checkout/internal/domain/coupon"
	"github.com/parsapay/checkout/internal/domain/order"
	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/httpclient"
	"github.com/parsapay/checkout/internal/types"
)

// couponRepository talks to the coupon registry service over HTTP
type couponRepository struct {
	RepositoryParams
	baseURL string
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	resp, err := r.Client.Send(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/v1/coupons/%s", r.baseURL, url.PathEscape(code)),
	})
	if err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok && httpErr.StatusCode == http.StatusNotFound {
			return nil, ierr.NewError("coupon not found").
				WithHintf("Coupon %s was not found", code).
				WithReportableDetails(map[string]any{"code": code}).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}

	var c coupon.Coupon
	if err := json.Unmarshal(resp.Body, &c); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The coupon registry returned an unreadable response").
			Mark(ierr.ErrHTTPClient)
	}
	return &c, nil
}

func (r *couponRepository) ValidateCoupon(ctx context.Context, code string, orderAmount types.Money, items []order.LineItem) (*coupon.RemoteValidationResult, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"code":         code,
		"order_amount": orderAmount,
		"items":        items,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to build the validation request").
			Mark(ierr.ErrSystem)
	}

	resp, err := r.Client.Send(ctx, &httpclient.Request{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/v1/coupons/validate", r.baseURL),
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var result coupon.RemoteValidationResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The coupon registry returned an unreadable response").
			Mark(ierr.ErrHTTPClient)
	}
	return &result, nil
}

func (r *couponRepository) ApplyCoupon(ctx context.Context, code string, orderID string, orderAmount types.Money) (*coupon.CommitResult, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"code":         code,
		"order_id":     orderID,
		"order_amount": orderAmount,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to build the apply request").
			Mark(ierr.ErrSystem)
	}

	resp, err := r.Client.Send(ctx, &httpclient.Request{
		Method: http.MethodPost,
		URL:    fmt.Sprintf("%s/v1/coupons/apply", r.baseURL),
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var result coupon.CommitResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, ierr.WithError(err).
			WithHint("The coupon registry returned an unreadable response").
			Mark(ierr.ErrHTTPClient)
	}
	return &result, nil
}
