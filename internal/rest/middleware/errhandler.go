package middleware

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	ierr "github.com/parsapay/checkout/internal/errors"
	"github.com/parsapay/checkout/internal/types"
)

const safeDetailPrefix = "__json__:"

// ErrorHandler renders the last error a handler attached to the gin
// context as the standard error envelope. Hints become the customer
// message, reportable details become the details map, and the request
// correlation ID rides along for support lookups.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		response := ierr.ErrorResponse{
			Success: false,
			Error: ierr.ErrorDetail{
				Display: displayMessage(err),
				Details: safeDetails(err),
			},
			RequestID: types.GetRequestID(c.Request.Context()),
		}

		c.JSON(ierr.HTTPStatusFromErr(err), response)
	}
}

// displayMessage picks the first non-empty hint. Hints are attached
// closest to the failure, so the post-order traversal yields the most
// specific one first.
func displayMessage(err error) string {
	for _, hint := range errors.GetAllHints(err) {
		if hint = strings.TrimSpace(hint); hint != "" {
			return hint
		}
	}

	// Unhinted errors never leak internals to the storefront
	return "Something went wrong while processing the request, please try again"
}

// safeDetails collects every reportable-details payload in the chain into
// one flat map
func safeDetails(err error) map[string]any {
	details := make(map[string]any)

	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			if !strings.HasPrefix(payload, safeDetailPrefix) {
				continue
			}
			var decoded map[string]any
			if err := json.Unmarshal([]byte(payload[len(safeDetailPrefix):]), &decoded); err != nil {
				continue
			}
			for k, v := range decoded {
				details[k] = v
			}
		}
	}

	return details
}
