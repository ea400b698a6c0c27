package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/learnhub/server/internal/shared/requestctx"
)

// RequestIDHeader carries MercadoPago's delivery id. It is echoed back on
// every response.
const RequestIDHeader = "X-Request-ID"

// RequestID attaches a delivery correlation to the request context. A sender
// id is kept as is since the signature manifest covers it; otherwise a UUID is
// generated for log correlation only and the request header stays empty.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		corr := requestctx.Correlation{ID: c.GetHeader(RequestIDHeader), Provided: true}
		if corr.ID == "" {
			corr = requestctx.Correlation{ID: uuid.NewString()}
		}

		c.Header(RequestIDHeader, corr.ID)
		c.Request = c.Request.WithContext(requestctx.WithCorrelation(c.Request.Context(), corr))

		c.Next()
	}
}

// GetRequestID returns the delivery correlation id of c.
func GetRequestID(c *gin.Context) string {
	return requestctx.RequestID(c.Request.Context())
}
