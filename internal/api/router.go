package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	v1 "github.com/parsapay/checkout/internal/api/v1"
	"github.com/parsapay/checkout/internal/rest/middleware"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Pricing *v1.PricingHandler
	Coupon  *v1.CouponHandler
	Gateway *v1.GatewayHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID", "X-User-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	// Pricing routes
	pricing := router.Group("/pricing")
	{
		pricing.POST("/quotes", handlers.Pricing.CreateQuote)
	}

	// Coupon routes
	coupons := router.Group("/coupons")
	{
		coupons.POST("/validate", handlers.Coupon.ValidateCoupon)
	}

	// Gateway routes
	gateways := router.Group("/gateways")
	{
		gateways.GET("", handlers.Gateway.ListGateways)
		gateways.POST("/refresh", handlers.Gateway.RefreshGateways)
	}
}
