// Package config provides configuration loading and management for the qooqz API.
package config

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/ibdaa1/qooqz/pkg/logger"
	"github.com/joho/godotenv"
)

// Config holds environment configuration for the qooqz API.
type Config struct {
	// Port is the port on which the HTTP server listens.
	Port string `env:"QOOQZ_PORT" envDefault:"8080"`

	// PostgresURL takes precedence over the discrete Postgres settings when set.
	PostgresURL      string `env:"POSTGRES_URL"`
	PostgresHost     string `env:"POSTGRES_HOST"`
	PostgresPort     string `env:"POSTGRES_PORT"`
	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE"`

	// RedisAddr enables the attribute cache when non-empty.
	RedisAddr string `env:"REDIS_ADDR"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// AttributeCacheTTL bounds how long attribute definitions stay cached. Zero disables the cache.
	AttributeCacheTTL time.Duration `env:"ATTRIBUTE_CACHE_TTL" envDefault:"5m"`

	// SessionSecret signs session cookies. Sessions are ignored when empty.
	SessionSecret string `env:"SESSION_SECRET"`

	DefaultLang     string        `env:"DEFAULT_LANG" envDefault:"ar"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Conf holds the global configuration for the qooqz API.
var Conf Config

func loadDotEnv() {
	// Does not override variables already present in the environment.
	path := os.Getenv("DOTENV_PATHS")
	if path != "" {
		err := godotenv.Load(strings.Split(path, ",")...)
		if err != nil {
			logger.Fatal(context.Background(), err.Error())
		}
	}
}

// Load reads the environment (after optional dotenv files) into a fresh Config.
func Load() (Config, error) {
	loadDotEnv()

	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// InitConf initializes the global configuration by loading environment variables and .env files.
func InitConf() {
	c, err := Load()
	if err != nil {
		logger.Fatal(context.Background(), err.Error())
	}
	Conf = c
}
