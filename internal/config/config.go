package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string   `env:"APP_ENV" envDefault:"development"`
	ListenAddr  string   `env:"LISTEN_ADDR" envDefault:":8080"`
	DatabaseURL string   `env:"DATABASE_URL"`
	JWTSecret   string   `env:"JWT_SECRET"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"false"`

	RedisURL          string        `env:"REDIS_URL"`
	RevalidateChannel string        `env:"REVALIDATE_CHANNEL" envDefault:"backoffice:revalidate"`
	RevalidateWorkers int           `env:"REVALIDATE_WORKERS" envDefault:"2"`
	RevalidateFlush   time.Duration `env:"REVALIDATE_FLUSH" envDefault:"250ms"`
}

var (
	ErrNoDatabaseURL = errors.New("DATABASE_URL not set")
	ErrNoJWTSecret   = errors.New("JWT_SECRET not set")
)

// Load reads an optional .env file and then the process environment.
// A missing DATABASE_URL is reported as ErrNoDatabaseURL alongside the parsed
// config so callers can decide whether it is fatal.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return cfg, ErrNoDatabaseURL
	}
	return cfg, nil
}

// ValidateServe checks the settings the HTTP server cannot run without.
func (c Config) ValidateServe() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, ErrNoDatabaseURL)
	}
	if c.JWTSecret == "" {
		errs = append(errs, ErrNoJWTSecret)
	}
	if c.RevalidateWorkers < 0 {
		errs = append(errs, fmt.Errorf("REVALIDATE_WORKERS must be >= 0, got %d", c.RevalidateWorkers))
	}
	if c.RevalidateFlush <= 0 {
		errs = append(errs, fmt.Errorf("REVALIDATE_FLUSH must be positive, got %s", c.RevalidateFlush))
	}
	return errors.Join(errs...)
}

func (c Config) IsDevelopment() bool { return c.Env == "development" }
