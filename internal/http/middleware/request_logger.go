// Package middleware provides the gin middleware of the admin API.
package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ibdaa1/qooqz/pkg/ctxutil"
	"github.com/ibdaa1/qooqz/pkg/logger"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs each request once, at a level chosen by its status.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		target := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			target += "?" + q
		}

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		fields := map[string]any{
			"method":     c.Request.Method,
			"path":       target,
			"route":      c.FullPath(),
			"status":     status,
			"latency":    elapsed.String(),
			"latency_ms": elapsed.Milliseconds(),
			"bytes":      max(c.Writer.Size(), 0),
			"ip":         c.ClientIP(),
			"ua":         c.Request.UserAgent(),
		}
		if uid, found := ctxutil.UserID(c.Request.Context()); found {
			fields["user_id"] = uid
		}
		if msgs := c.Errors.Errors(); len(msgs) > 0 {
			fields["errors"] = strings.Join(msgs, "; ")
		}
		logger.With(c.Request.Context(), fields).Log(levelFor(status), "request completed")
	}
}

func levelFor(status int) logrus.Level {
	switch {
	case status >= 500:
		return logrus.ErrorLevel
	case status >= 400:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}
