// Package config loads and validates service configuration from the
// environment via Viper. The two product profiles (quote vs schedule
// booking, static vs delegated gate) are plain configuration here, never
// both active at once.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"buildpro.org/internal/booking"
)

// Gate modes.
const (
	GateStatic    = "static"
	GateDelegated = "delegated"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the API listens on.
	HTTPAddr string `mapstructure:"BUILDPRO_HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; when empty the in-memory record
	// store is used.
	DatabaseURL string `mapstructure:"BUILDPRO_PG_DSN"`
	// BookingFlow selects the booking profile: "quote" or "schedule".
	BookingFlow string `mapstructure:"BUILDPRO_BOOKING_FLOW"`
	// GateMode selects the admin access gate: "static" or "delegated".
	GateMode string `mapstructure:"BUILDPRO_GATE_MODE"`
	// AdminLoginID and AdminPassword back the static gate.
	AdminLoginID  string `mapstructure:"BUILDPRO_ADMIN_LOGIN"`
	AdminPassword string `mapstructure:"BUILDPRO_ADMIN_PASSWORD"`
	// AuthSecret signs delegated-gate session tokens.
	AuthSecret string `mapstructure:"BUILDPRO_AUTH_SECRET"`
	// SessionTTL is the session token lifetime (e.g. "12h").
	SessionTTL string `mapstructure:"BUILDPRO_SESSION_TTL"`
	// RateBurst and RatePerSec bound per-IP request rates.
	RateBurst  int `mapstructure:"BUILDPRO_RATE_BURST"`
	RatePerSec int `mapstructure:"BUILDPRO_RATE_PER_SEC"`
	// MaxBodyBytes caps request body size.
	MaxBodyBytes int64 `mapstructure:"BUILDPRO_MAX_BODY_BYTES"`
}

// Load builds and validates Config from the environment. Mains load an
// optional .env into the process environment beforehand.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("BUILDPRO_HTTP_ADDR", ":8080")
	v.SetDefault("BUILDPRO_PG_DSN", "")
	v.SetDefault("BUILDPRO_BOOKING_FLOW", string(booking.FlowQuote))
	v.SetDefault("BUILDPRO_GATE_MODE", GateStatic)
	v.SetDefault("BUILDPRO_ADMIN_LOGIN", "admin")
	v.SetDefault("BUILDPRO_ADMIN_PASSWORD", "")
	v.SetDefault("BUILDPRO_AUTH_SECRET", "")
	v.SetDefault("BUILDPRO_SESSION_TTL", "12h")
	v.SetDefault("BUILDPRO_RATE_BURST", 20)
	v.SetDefault("BUILDPRO_RATE_PER_SEC", 10)
	v.SetDefault("BUILDPRO_MAX_BODY_BYTES", 1<<20)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: BUILDPRO_HTTP_ADDR must be set")
	}

	switch booking.Flow(cfg.BookingFlow) {
	case booking.FlowQuote, booking.FlowSchedule:
	default:
		return nil, fmt.Errorf("config: unknown booking flow %q", cfg.BookingFlow)
	}

	switch cfg.GateMode {
	case GateStatic:
		if cfg.AdminLoginID == "" || cfg.AdminPassword == "" {
			return nil, errors.New("config: static gate requires BUILDPRO_ADMIN_LOGIN and BUILDPRO_ADMIN_PASSWORD")
		}
	case GateDelegated:
		if cfg.AuthSecret == "" {
			return nil, errors.New("config: delegated gate requires BUILDPRO_AUTH_SECRET")
		}
	default:
		return nil, fmt.Errorf("config: unknown gate mode %q", cfg.GateMode)
	}

	if cfg.RateBurst <= 0 || cfg.RatePerSec <= 0 {
		return nil, errors.New("config: rate limits must be positive")
	}
	if cfg.MaxBodyBytes <= 0 {
		return nil, errors.New("config: BUILDPRO_MAX_BODY_BYTES must be positive")
	}

	return &cfg, nil
}

// Flow returns the booking profile as its domain type.
func (c *Config) Flow() booking.Flow {
	return booking.Flow(c.BookingFlow)
}

// SessionTTLDuration parses SessionTTL. Returns 12h if unset or invalid.
func (c *Config) SessionTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 12 * time.Hour
	}
	return d
}
