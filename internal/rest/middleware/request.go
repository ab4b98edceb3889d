package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/parsapay/checkout/internal/types"
)

// RequestIDMiddleware tags every request with an ID and resolves the
// acting user from the gateway-provided header
func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUID()
	}
	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)

	if userID := c.GetHeader(types.HeaderUserID); userID != "" {
		ctx = context.WithValue(ctx, types.CtxUserID, userID)
	}

	c.Request = c.Request.WithContext(ctx)
	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}
