package data

import (
	"testing"

	"github.com/ibdaa1/qooqz/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgresDSN(t *testing.T) {
	if got := PostgresDSN(config.Config{PostgresURL: "postgres://x"}); got != "postgres://x" {
		t.Fatalf("url should win, got %q", got)
	}
	got := PostgresDSN(config.Config{PostgresPassword: "pw", PostgresDB: "shop"})
	want := "postgres://postgres:pw@127.0.0.1:5432/shop?sslmode=disable"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestPostgresDSN_EscapesPassword(t *testing.T) {
	conf := config.Config{PostgresUser: "admin", PostgresPassword: "p@ss/w:rd?#", PostgresHost: "db", PostgresDB: "shop"}
	cfg, err := pgxpool.ParseConfig(PostgresDSN(conf))
	if err != nil {
		t.Fatalf("dsn should parse: %v", err)
	}
	cc := cfg.ConnConfig
	if cc.User != "admin" || cc.Password != "p@ss/w:rd?#" || cc.Host != "db" || cc.Database != "shop" {
		t.Fatalf("unexpected conn config: user=%q password=%q host=%q db=%q", cc.User, cc.Password, cc.Host, cc.Database)
	}
}

func TestNewRedisClient_Disabled(t *testing.T) {
	if c := NewRedisClient(config.Config{}); c != nil {
		t.Fatal("expected nil client without address")
	}
	c := NewRedisClient(config.Config{RedisAddr: "localhost:6379", RedisDB: 2})
	if c == nil || c.Options().DB != 2 {
		t.Fatalf("unexpected client: %+v", c)
	}
	_ = c.Close()
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one migration")
	}
}
