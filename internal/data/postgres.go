// Package data provides low-level data clients and connection factories.
package data

import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/ibdaa1/qooqz/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDSN builds the connection string from configuration, preferring PostgresURL.
func PostgresDSN(c config.Config) string {
	if c.PostgresURL != "" {
		return c.PostgresURL
	}
	host := c.PostgresHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := c.PostgresPort
	if port == "" {
		port = "5432"
	}
	user := c.PostgresUser
	if user == "" {
		user = "postgres"
	}
	db := c.PostgresDB
	if db == "" {
		db = "qooqz"
	}
	sslmode := c.PostgresSSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, c.PostgresPassword),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + db,
		RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
	}
	return u.String()
}

// NewPostgresPool creates a new pgx connection pool based on configuration.
func NewPostgresPool(ctx context.Context, c config.Config) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(PostgresDSN(c))
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 30 * time.Second
	cfg.MaxConnLifetime = 30 * time.Minute
	return pgxpool.NewWithConfig(ctx, cfg)
}
