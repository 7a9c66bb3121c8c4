package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ibdaa1/qooqz/pkg/ctxutil"
)

const (
	headerRequestID = "X-Request-ID"
	headerClientID  = "X-Client-ID"

	maxIDLength = 128
)

// RequestIDMiddleware sets a request id and a client id on every request,
// taking them from the headers when present and generating them otherwise.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := headerOrUUID(c, headerRequestID)
		clientID := headerOrUUID(c, headerClientID)
		ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
		ctx = ctxutil.WithClientID(ctx, clientID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(headerRequestID, requestID)
		c.Header(headerClientID, clientID)
		c.Next()
	}
}

// headerOrUUID returns the trimmed header value, or a fresh UUID when it is blank or oversized.
func headerOrUUID(c *gin.Context, name string) string {
	v := strings.TrimSpace(c.GetHeader(name))
	if v == "" || len(v) > maxIDLength {
		return uuid.New().String()
	}
	return v
}
