// Package config loads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the FinCore banking app.
//
// Fields:
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretScheme: credential storage scheme, "plain" (default) or "bcrypt".
//   - AllowOverdraft: whether withdrawals may drive a balance negative.
//     Defaults to true.
//   - InvalidateOnLogout: whether Logout drops the session. By default
//     Logout is a no-op.
//   - LoginRatePerMinute / LoginRateBurst: per-username login rate limit;
//     zero disables it.
//   - MetricsAddr: optional listen address for the Prometheus endpoint,
//     e.g. ":9102". Empty disables the listener.
//   - SeedDemo: load the demo identities into the in-memory store.
type Config struct {
	DatabaseDSN        string `env:"FINCORE_PG_DSN"`
	SecretScheme       string `env:"FINCORE_SECRET_SCHEME" envDefault:"plain"`
	AllowOverdraft     bool   `env:"FINCORE_ALLOW_OVERDRAFT" envDefault:"true"`
	InvalidateOnLogout bool   `env:"FINCORE_LOGOUT_INVALIDATES" envDefault:"false"`
	LoginRatePerMinute int    `env:"FINCORE_LOGIN_RATE_PER_MINUTE" envDefault:"0"`
	LoginRateBurst     int    `env:"FINCORE_LOGIN_RATE_BURST" envDefault:"0"`
	MetricsAddr        string `env:"FINCORE_METRICS_ADDR"`
	SeedDemo           bool   `env:"FINCORE_SEED_DEMO" envDefault:"true"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
