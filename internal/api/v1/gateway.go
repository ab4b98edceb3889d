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

type GatewayHandler struct {
	catalog service.GatewayCatalogService
	log     *logger.Logger
}

func NewGatewayHandler(catalog service.GatewayCatalogService, log *logger.Logger) *GatewayHandler {
	return &GatewayHandler{catalog: catalog, log: log}
}

// ListGateways returns the catalog annotated for the amount in the query
func (h *GatewayHandler) ListGateways(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.ListGatewaysRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Error("Failed to bind query", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = types.DefaultCurrency
	}
	amount := types.NewMoney(req.Amount, currency)

	ranked, err := h.catalog.Rank(ctx, amount, service.RankContext{
		UserID: types.GetUserID(ctx),
	})
	if err != nil {
		h.log.Error("Failed to rank gateways", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListGatewaysResponse(amount, ranked))
}

// RefreshGateways drops the cached catalog and wallet snapshots
func (h *GatewayHandler) RefreshGateways(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.catalog.Refresh(ctx, types.GetUserID(ctx)); err != nil {
		h.log.Error("Failed to refresh gateway catalog", "error", err)
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
