package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parsapay/checkout/internal/api/dto"
	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/logger"
	"github.com/parsapay/checkout/internal/service"
	"github.com/parsapay/checkout/internal/types"
)

type PricingHandler struct {
	service service.PricingPipelineService
	log     *logger.Logger
}

func NewPricingHandler(service service.PricingPipelineService, log *logger.Logger) *PricingHandler {
	return &PricingHandler{service: service, log: log}
}

// CreateQuote prices an order snapshot with coupons, tax and gateway
// ranking in one pass
func (h *PricingHandler) CreateQuote(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreatePricingQuoteRequest
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

	snapshot, err := req.ToSnapshot()
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.service.GetQuote(ctx, service.QuoteInput{
		Snapshot:    snapshot,
		CouponCodes: req.CouponCodes,
		Preferred:   req.PreferredGateway,
		UserID:      types.GetUserID(ctx),
	})
	if err != nil {
		h.log.Error("Failed to compute quote", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPricingQuoteResponse(result))
}
