package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ibdaa1/qooqz/pkg"
	"github.com/ibdaa1/qooqz/pkg/ctxutil"
	"github.com/ibdaa1/qooqz/pkg/logger"
)

// SessionCookie is the cookie carrying the signed admin session.
const SessionCookie = "session"

// SessionClaims are the claims of a session token.
type SessionClaims struct {
	TenantID int64 `json:"tenant_id"`
	UserID   int64 `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// SignSession issues an HS256 session token for the given tenant and user.
func SignSession(secret string, tenantID, userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		TenantID: tenantID,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// parseSession verifies a session token and returns its claims.
func parseSession(secret, token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if claims.TenantID < 1 {
		return nil, errors.New("parse session: missing tenant_id")
	}
	return claims, nil
}

// Tenant resolves the tenant a request acts on. A numeric tenant_id query
// parameter wins; otherwise the session cookie is verified with secret.
// Requests without a tenant are rejected with 401.
func Tenant(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if raw := c.Query("tenant_id"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				c.Request = c.Request.WithContext(ctxutil.WithTenantID(ctx, id))
				c.Next()
				return
			}
		}
		if token, err := c.Cookie(SessionCookie); err == nil && token != "" && secret != "" {
			claims, err := parseSession(secret, token)
			if err == nil {
				ctx = ctxutil.WithTenantID(ctx, claims.TenantID)
				if claims.UserID > 0 {
					ctx = ctxutil.WithUserID(ctx, claims.UserID)
				}
				c.Request = c.Request.WithContext(ctx)
				c.Next()
				return
			}
			logger.Debug(ctx, "rejected session: %v", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			pkg.NewErrorResponse(http.StatusUnauthorized, pkg.CodeUnauthorized, pkg.MsgTenantNotFound, nil))
	}
}
