// Package main is the entry point for the qooqz admin API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ibdaa1/qooqz/internal/config"
	"github.com/ibdaa1/qooqz/internal/data"
	"github.com/ibdaa1/qooqz/internal/http/handler"
	"github.com/ibdaa1/qooqz/internal/http/router"
	"github.com/ibdaa1/qooqz/internal/repository"
	"github.com/ibdaa1/qooqz/internal/repository/cached"
	"github.com/ibdaa1/qooqz/internal/repository/postgres"
	"github.com/ibdaa1/qooqz/internal/service"
	"github.com/ibdaa1/qooqz/pkg/logger"
)

func main() {
	logger.InitLogging()
	config.InitConf()
	conf := config.Conf

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := data.NewPostgresPool(ctx, conf)
	if err != nil {
		logger.Fatal(ctx, "failed to open postgres pool: %v", err)
	}
	defer pool.Close()

	if conf.AutoMigrate {
		db := data.OpenSQL(pool)
		if err := data.Migrate(ctx, db); err != nil {
			logger.Fatal(ctx, "failed to apply migrations: %v", err)
		}
		_ = db.Close()
	}

	rdb := data.NewRedisClient(conf)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	clock := service.RealClock{}
	entities := postgres.NewEntityRepository(pool)
	values := postgres.NewAttributeValueRepository(pool)
	settings := postgres.NewEntitySettingRepository(pool)
	attributes, cache := attributeRepository(ctx, postgres.NewAttributeRepository(pool), rdb, conf.AttributeCacheTTL)

	r := router.NewRouter(router.Deps{
		Health:          handler.NewHealthHandler(pool, cache),
		Entities:        handler.NewEntityHandler(service.NewEntityService(entities, clock)),
		Attributes:      handler.NewAttributeHandler(service.NewAttributeService(attributes, clock), conf.DefaultLang),
		AttributeValues: handler.NewAttributeValueHandler(service.NewAttributeValueService(entities, attributes, values, clock)),
		Settings:        handler.NewEntitySettingHandler(service.NewEntitySettingService(entities, settings, clock)),
		SessionSecret:   conf.SessionSecret,
	})
	if conf.SessionSecret == "" {
		logger.Warn(ctx, "SESSION_SECRET is empty, session cookies will be ignored")
	}

	srv := &http.Server{
		Addr:              ":" + conf.Port,
		Handler:           applyCORSHandler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "graceful shutdown failed: %v", err)
	}
}

// attributeRepository wraps the primary store with the redis cache when one is reachable.
// It returns the client the cache uses, or nil when caching is off, so readiness only
// checks redis while requests depend on it.
func attributeRepository(ctx context.Context, primary repository.AttributeRepository, rdb *redis.Client, ttl time.Duration) (repository.AttributeRepository, *redis.Client) {
	if rdb == nil || ttl <= 0 {
		logger.Info(ctx, "attribute cache disabled")
		return primary, nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn(ctx, "redis unreachable, attribute cache disabled: %v", err)
		return primary, nil
	}
	return cached.NewAttributeRepository(primary, rdb, ttl), rdb
}
