package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/ibdaa1/qooqz/internal/http/handler"
	"github.com/ibdaa1/qooqz/internal/repository/cached"
	"github.com/ibdaa1/qooqz/internal/repository/fake"
)

func readyz(cache *redis.Client) int {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/readyz", handler.NewHealthHandler(nil, cache).Readiness)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	return w.Code
}

func TestAttributeRepository_UnreachableRedisStaysOutOfReadiness(t *testing.T) {
	dead := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer dead.Close()
	primary := fake.NewAttributeRepository()

	repo, cache := attributeRepository(context.Background(), primary, dead, time.Minute)
	if cache != nil {
		t.Fatal("an unreachable redis must not be reported as the cache client")
	}
	if repo != primary {
		t.Fatal("the primary repository should be used uncached")
	}
	if code := readyz(cache); code != http.StatusOK {
		t.Fatalf("want 200 with the cache off, got %d", code)
	}
}

func TestAttributeRepository_ZeroTTLDisablesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	repo, cache := attributeRepository(context.Background(), fake.NewAttributeRepository(), rdb, 0)
	if cache != nil {
		t.Fatal("a zero ttl should turn the cache off")
	}
	if _, isCached := repo.(*cached.AttributeRepository); isCached {
		t.Fatal("repository should not be wrapped with a zero ttl")
	}
	mr.Close()
	if code := readyz(cache); code != http.StatusOK {
		t.Fatalf("want 200 while redis is not in use, got %d", code)
	}
}

func TestAttributeRepository_ReachableRedisIsChecked(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	repo, cache := attributeRepository(context.Background(), fake.NewAttributeRepository(), rdb, time.Minute)
	if cache != rdb {
		t.Fatal("the cache client should be returned when redis answers")
	}
	if _, isCached := repo.(*cached.AttributeRepository); !isCached {
		t.Fatal("repository should be wrapped with the cache")
	}
	if code := readyz(cache); code != http.StatusOK {
		t.Fatalf("want 200 with redis up, got %d", code)
	}
	mr.Close()
	if code := readyz(cache); code != http.StatusServiceUnavailable {
		t.Fatalf("want 503 once the cache in use goes down, got %d", code)
	}
}
