package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appctx "puntoventa/internal/core/context"
)

const HeaderRequestID = "X-Request-ID"

// Trace attaches a request id to the context and response headers,
// reusing the caller's X-Request-ID when present.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := appctx.WithTrace(c.Request.Context(), &appctx.Trace{RequestID: requestID})
		c.Request = c.Request.WithContext(ctx)

		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()
	}
}
