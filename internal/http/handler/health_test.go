package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// fake pgxpool with Ping override
type fakePinger struct {
	err   error
	delay time.Duration
}

func (f *fakePinger) Ping(ctx context.Context) error {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.err
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp
}

func TestPing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/ping", Ping)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	resp := decode(t, w)
	if resp["success"] != true || resp["message"] != "pong" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestLiveness_ResponseFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hh := &HealthHandler{pingTimeout: time.Second}
	r := gin.New()
	r.GET("/healthz", hh.Liveness)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	data := decode(t, w)["data"].(map[string]any)
	if data["status"] != "alive" {
		t.Fatalf("expected status alive, got %v", data["status"])
	}
}

func TestReadiness_AllUp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hh := &HealthHandler{pg: &fakePinger{}, redis: &fakePinger{}, pingTimeout: time.Second}
	r := gin.New()
	r.GET("/readyz", hh.Readiness)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	data := decode(t, w)["data"].(map[string]any)
	checks := data["checks"].([]any)
	if data["ready"] != true || len(checks) != 2 {
		t.Fatalf("unexpected data: %v", data)
	}
	if checks[0].(map[string]any)["name"] != "postgres" || checks[0].(map[string]any)["status"] != "up" {
		t.Fatalf("unexpected first check: %v", checks[0])
	}
}

func TestReadiness_PostgresDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hh := &HealthHandler{pingTimeout: time.Second}
	hh.pg = &fakePinger{err: errors.New("postgres connection failed")}
	hh.redis = &fakePinger{}

	r := gin.New()
	r.GET("/readyz", hh.Readiness)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d", w.Code)
	}
	resp := decode(t, w)
	if resp["success"] != false {
		t.Fatalf("want success=false")
	}
	details := resp["error"].(map[string]any)["details"].(map[string]any)
	pg := details["checks"].([]any)[0].(map[string]any)
	if pg["status"] != "down" || pg["error"] != "postgres connection failed" {
		t.Fatalf("unexpected postgres check: %v", pg)
	}
}

func TestReadiness_Timeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hh := &HealthHandler{pingTimeout: 50 * time.Millisecond}
	hh.pg = &fakePinger{delay: 100 * time.Millisecond}

	r := gin.New()
	r.GET("/readyz", hh.Readiness)
	w := httptest.NewRecorder()
	start := time.Now()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	elapsed := time.Since(start)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d", w.Code)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("request took too long: %v", elapsed)
	}
}

func TestNewHealthHandler_NilClients(t *testing.T) {
	hh := NewHealthHandler(nil, nil)
	if hh.pg != nil || hh.redis != nil {
		t.Fatalf("expected no pingers for nil clients")
	}
	if hh.pingTimeout != time.Second {
		t.Fatalf("expected default timeout to be 1 second, got %v", hh.pingTimeout)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/readyz", hh.Readiness)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("want 200 with no deps to check, got %d", w.Code)
	}
}
