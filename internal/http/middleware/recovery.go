package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/ibdaa1/qooqz/pkg"
	"github.com/ibdaa1/qooqz/pkg/logger"
)

// Recovery turns a panicking handler into a 500 envelope. The stack is logged, never returned.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			fields := map[string]any{"panic": r, "route": c.FullPath(), "stack": string(debug.Stack())}
			logger.With(c.Request.Context(), fields).Error("panic recovered")
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				pkg.NewErrorResponse(http.StatusInternalServerError, "internal_error", "internal server error", nil))
		}()
		c.Next()
	}
}
