// Package config gathers the portal's settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/yourorg/property-portal/internal/env"
)

// Catalog source kinds.
const (
	SourceSample   = "sample"
	SourceFile     = "file"
	SourceRemote   = "remote"
	SourcePostgres = "postgres"
)

type Config struct {
	Port        int
	Env         string
	LogLevel    string
	CORSOrigins []string
	RateLimit   int
	RateWindow  time.Duration
	SubmitDelay time.Duration

	Catalog  Catalog
	Postgres Postgres
	Redis    Redis
	AMQP     AMQP
}

type Catalog struct {
	Source     string
	File       string
	URL        string
	APIKey     string
	Refresh    time.Duration
	StaleAfter time.Duration
	CacheTTL   time.Duration
}

type Postgres struct{ DSN string }

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type AMQP struct {
	URL      string
	Exchange string
}

// Load reads the environment (after any .env file) and checks that the
// chosen catalog source has what it needs.
func Load() (Config, error) {
	env.Load()
	c := Config{
		Port:        env.GetInt("PORT", 4002),
		Env:         env.Get("APP_ENV", "production"),
		LogLevel:    env.Get("LOG_LEVEL", "info"),
		CORSOrigins: env.GetList("CORS_ORIGINS", []string{"*"}),
		RateLimit:   env.GetInt("RATE_LIMIT", 120),
		RateWindow:  env.GetDuration("RATE_WINDOW", time.Minute),
		SubmitDelay: env.GetDuration("SUBMIT_DELAY", time.Second),
		Catalog: Catalog{
			Source:     strings.ToLower(env.Get("CATALOG_SOURCE", SourceSample)),
			File:       env.Get("CATALOG_FILE", ""),
			URL:        env.Get("CATALOG_URL", ""),
			APIKey:     env.Get("CATALOG_API_KEY", ""),
			Refresh:    env.GetDuration("CATALOG_REFRESH", 0),
			StaleAfter: env.GetDuration("CATALOG_STALE_AFTER", 5*time.Minute),
			CacheTTL:   env.GetDuration("CATALOG_CACHE_TTL", time.Hour),
		},
		Postgres: Postgres{DSN: env.Get("PG_DSN", "")},
		Redis: Redis{
			Addr:     env.Get("REDIS_ADDR", ""),
			Password: env.Get("REDIS_PASSWORD", ""),
			DB:       env.GetInt("REDIS_DB", 0),
		},
		AMQP: AMQP{
			URL:      env.Get("AMQP_URL", ""),
			Exchange: env.Get("AMQP_EXCHANGE", "portal.events"),
		},
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT and RATE_WINDOW must be positive")
	}
	if c.SubmitDelay < 0 {
		return fmt.Errorf("SUBMIT_DELAY must not be negative")
	}
	switch c.Catalog.Source {
	case SourceSample:
	case SourceFile:
		if c.Catalog.File == "" {
			return fmt.Errorf("CATALOG_FILE is required for the file source")
		}
	case SourceRemote:
		if c.Catalog.URL == "" {
			return fmt.Errorf("CATALOG_URL is required for the remote source")
		}
	case SourcePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("PG_DSN is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.Catalog.Source)
	}
	return nil
}

// Development reports whether APP_ENV selects development mode.
func (c Config) Development() bool { return strings.EqualFold(c.Env, "development") }
