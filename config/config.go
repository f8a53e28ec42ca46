// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"booking-system/database"
	"booking-system/eligibility"

	"github.com/caarlos0/env/v11"
)

const (
	QueueMemory = "memory"
	QueueRedis  = "redis"
)

type Config struct {
	Port           int           `env:"PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	ClientURL      string        `env:"CLIENT_URL" envDefault:"http://localhost:5173"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"booking.db"`

	AdminKey   string `env:"ADMIN_KEY"`
	AdminEmail string `env:"ADMIN_EMAIL"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"Bookings <onboarding@resend.dev>"`

	BookingYear  int `env:"BOOKING_YEAR" envDefault:"2026"`
	BookingMonth int `env:"BOOKING_MONTH" envDefault:"3"`

	RateGlobalMax     int           `env:"RATE_GLOBAL_MAX" envDefault:"300"`
	RateGlobalWindow  time.Duration `env:"RATE_GLOBAL_WINDOW" envDefault:"15m"`
	RateBookingMax    int           `env:"RATE_BOOKING_MAX" envDefault:"3"`
	RateBookingWindow time.Duration `env:"RATE_BOOKING_WINDOW" envDefault:"1h"`
	RateKeyHeader     string        `env:"RATE_KEY_HEADER"`
	RateTrustProxy    bool          `env:"RATE_TRUST_PROXY" envDefault:"false"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	NotifyQueue  string `env:"NOTIFY_QUEUE" envDefault:"memory"`
	NotifyBuffer int    `env:"NOTIFY_BUFFER" envDefault:"256"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
}

// Load parses the environment and checks the combination of settings.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.NotifyQueue = strings.ToLower(strings.TrimSpace(cfg.NotifyQueue))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case database.DriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres driver"))
		}
	case database.DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver))
	}

	switch c.NotifyQueue {
	case QueueMemory:
	case QueueRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis notification queue"))
		}
	default:
		errs = append(errs, fmt.Errorf("NOTIFY_QUEUE %q is not supported", c.NotifyQueue))
	}

	if c.BookingMonth < 1 || c.BookingMonth > 12 {
		errs = append(errs, fmt.Errorf("BOOKING_MONTH %d is out of range", c.BookingMonth))
	}
	if c.RateGlobalMax < 1 || c.RateBookingMax < 1 {
		errs = append(errs, errors.New("rate limit maximums must be positive"))
	}
	if c.RateGlobalWindow <= 0 || c.RateBookingWindow <= 0 {
		errs = append(errs, errors.New("rate limit windows must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Policy is the eligibility policy for the configured booking month.
func (c *Config) Policy() eligibility.Policy {
	return eligibility.Policy{Year: c.BookingYear, Month: time.Month(c.BookingMonth)}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
