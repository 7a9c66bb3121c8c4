package logger

import (
	"context"
	"testing"

	"github.com/ibdaa1/qooqz/pkg/ctxutil"
)

func TestSprintf(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		args     []any
		expected string
	}{
		{"empty", "", nil, ""},
		{"no args", "hello", nil, "hello"},
		{"single string", "hello %s", []any{"world"}, "hello world"},
		{"multiple args", "%s %d %v", []any{"entity", 42, true}, "entity 42 true"},
		{"percent literal", "100%%", nil, "100%"},
		{"empty with args", "", []any{"ignored"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sprintf(tt.format, tt.args...); got != tt.expected {
				t.Fatalf("Sprintf(%q, %v) = %q, want %q", tt.format, tt.args, got, tt.expected)
			}
		})
	}
}

func TestWith_CarriesContextIdentifiers(t *testing.T) {
	ctx := ctxutil.WithRequestID(context.Background(), "rid-1")
	ctx = ctxutil.WithClientID(ctx, "cid-1")
	ctx = ctxutil.WithTenantID(ctx, 7)

	e := With(ctx, map[string]any{"component": "entities"})
	if e.Data["request_id"] != "rid-1" {
		t.Fatalf("request_id missing: %+v", e.Data)
	}
	if e.Data["client_id"] != "cid-1" {
		t.Fatalf("client_id missing: %+v", e.Data)
	}
	if e.Data["tenant_id"] != int64(7) {
		t.Fatalf("tenant_id missing: %+v", e.Data)
	}
	if e.Data["component"] != "entities" {
		t.Fatalf("component missing: %+v", e.Data)
	}
}

func TestWith_NilAndEmptyMap(t *testing.T) {
	ctx := context.Background()
	if e := With(ctx, nil); e == nil || len(e.Data) != 0 {
		t.Fatalf("expected empty entry, got %+v", e)
	}
	if e := With(ctx, map[string]any{}); e == nil || len(e.Data) != 0 {
		t.Fatalf("expected empty entry, got %+v", e)
	}
}

func TestWithField_Chained(t *testing.T) {
	ctx := context.Background()
	e := WithField(ctx, "service", "qooqz").WithField("version", "1.0.0")
	if e.Data["service"] != "qooqz" || e.Data["version"] != "1.0.0" {
		t.Fatalf("chained fields missing: %+v", e.Data)
	}
	e.Info("chained logging example")
}

func TestLoggingMethods(t *testing.T) {
	ctx := context.Background()

	// These should not panic
	Debug(ctx, "debug: %s %d", "test", 123)
	Info(ctx, "info: %v", map[string]int{"count": 42})
	Warn(ctx, "warn: %.2f%%", 75.5)
	Error(ctx, "error: %t", false)
	Trace(ctx, "trace message")
}

func TestConcurrentLogging(t *testing.T) {
	ctx := context.Background()
	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(id int) {
			WithField(ctx, "goroutine", id).Info("concurrent log message")
			Info(ctx, "global log message from goroutine %d", id)
			done <- true
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
