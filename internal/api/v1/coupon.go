package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parsapay/checkout/internal/api/dto"
	"github.com/parsapay/checkout/internal/domain/order"
	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/logger"
	"github.com/parsapay/checkout/internal/service"
	"github.com/parsapay/checkout/internal/types"
)

type CouponHandler struct {
	client service.CouponValidationClient
	log    *logger.Logger
}

func NewCouponHandler(client service.CouponValidationClient, log *logger.Logger) *CouponHandler {
	return &CouponHandler{client: client, log: log}
}

// ValidateCoupon checks a single code against an order snapshot. Coupon
// rule failures are a valid response, not an HTTP error.
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = types.DefaultCurrency
	}

	lines := make([]order.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, order.LineItem{
			ItemID:   item.ItemID,
			ItemType: item.ItemType,
			Quantity: item.Quantity,
		})
	}

	snapshot, err := order.NewSnapshot(types.NewMoney(req.Subtotal, currency), lines)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.client.ValidateNow(ctx, req.Code, snapshot)
	if err != nil {
		if cve, ok := service.AsCouponValidationError(err); ok {
			c.JSON(http.StatusOK, dto.ToValidateCouponResponse(req.Code, nil, cve))
			return
		}
		h.log.Error("Failed to validate coupon", "code", req.Code, "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ToValidateCouponResponse(req.Code, result, nil))
}
