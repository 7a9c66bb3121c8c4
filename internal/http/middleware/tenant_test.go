package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ibdaa1/qooqz/pkg"
	"github.com/ibdaa1/qooqz/pkg/ctxutil"
)

const testSecret = "s3cret"

type seenScope struct {
	tenant, user       int64
	hasTenant, hasUser bool
}

func tenantRouter(seen *seenScope) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Tenant(testSecret))
	r.GET("/scoped", func(c *gin.Context) {
		seen.tenant, seen.hasTenant = ctxutil.TenantID(c.Request.Context())
		seen.user, seen.hasUser = ctxutil.UserID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return r
}

func withSession(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	return req
}

func TestTenant_QueryParam(t *testing.T) {
	var seen seenScope
	w := httptest.NewRecorder()
	tenantRouter(&seen).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scoped?tenant_id=42", nil))
	if w.Code != http.StatusNoContent || !seen.hasTenant || seen.tenant != 42 || seen.hasUser {
		t.Fatalf("unexpected scope: code=%d %+v", w.Code, seen)
	}
}

func TestTenant_SessionCookie(t *testing.T) {
	token, err := SignSession(testSecret, 7, 99, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	var seen seenScope
	w := httptest.NewRecorder()
	tenantRouter(&seen).ServeHTTP(w, withSession(httptest.NewRequest(http.MethodGet, "/scoped", nil), token))
	if w.Code != http.StatusNoContent || seen.tenant != 7 || seen.user != 99 {
		t.Fatalf("unexpected scope: code=%d %+v", w.Code, seen)
	}
}

func TestTenant_QueryWinsOverSession(t *testing.T) {
	token, _ := SignSession(testSecret, 7, 99, time.Hour)
	var seen seenScope
	w := httptest.NewRecorder()
	tenantRouter(&seen).ServeHTTP(w, withSession(httptest.NewRequest(http.MethodGet, "/scoped?tenant_id=3", nil), token))
	if seen.tenant != 3 {
		t.Fatalf("want tenant 3, got %d", seen.tenant)
	}
}

func TestTenant_Rejects(t *testing.T) {
	expired, _ := SignSession(testSecret, 7, 0, -time.Minute)
	forged, _ := SignSession("other", 7, 0, time.Hour)
	noTenant, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{UserID: 5}).SignedString([]byte(testSecret))
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{TenantID: 7}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]*http.Request{
		"nothing":     httptest.NewRequest(http.MethodGet, "/scoped", nil),
		"bad query":   httptest.NewRequest(http.MethodGet, "/scoped?tenant_id=abc", nil),
		"zero query":  httptest.NewRequest(http.MethodGet, "/scoped?tenant_id=0", nil),
		"expired":     withSession(httptest.NewRequest(http.MethodGet, "/scoped", nil), expired),
		"forged":      withSession(httptest.NewRequest(http.MethodGet, "/scoped", nil), forged),
		"no tenant":   withSession(httptest.NewRequest(http.MethodGet, "/scoped", nil), noTenant),
		"alg none":    withSession(httptest.NewRequest(http.MethodGet, "/scoped", nil), none),
		"not a token": withSession(httptest.NewRequest(http.MethodGet, "/scoped", nil), "garbage"),
	}
	for name, req := range cases {
		var seen seenScope
		w := httptest.NewRecorder()
		tenantRouter(&seen).ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: want 401, got %d", name, w.Code)
		}
		if seen.hasTenant {
			t.Fatalf("%s: handler should not run", name)
		}
		var resp pkg.Response
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if resp.Message != pkg.MsgTenantNotFound || resp.Error == nil || resp.Error.Code != pkg.CodeUnauthorized {
			t.Fatalf("%s: unexpected body %s", name, w.Body.String())
		}
	}
}
