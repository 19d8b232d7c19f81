// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and MATCHBOARD_* environment variables on top.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: json or text.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the key-value backend: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// StorePath is the SQLite database file.
	StorePath string `koanf:"store_path"`

	// SeedDemo seeds the demo projects when the board is empty at startup.
	SeedDemo bool `koanf:"seed_demo"`

	// MaxMatches caps the ranked match list.
	MaxMatches int `koanf:"max_matches"`

	// MaxAdvantages caps advantage tags on a project submission.
	MaxAdvantages int `koanf:"max_advantages"`

	// Scoring weights.
	KeywordWeight     int `koanf:"keyword_weight"`
	RoleWeight        int `koanf:"role_weight"`
	AffiliationWeight int `koanf:"affiliation_weight"`
	TraitBonusMax     int `koanf:"trait_bonus_max"`

	// AdvantageTraits overrides the advantage to trait fallback table,
	// e.g. {"Nuclear": {"technical": 4, "compliance": 4}}.
	AdvantageTraits map[string]map[string]float64 `koanf:"advantage_traits"`

	// FeedTitle and FeedBaseURL shape the published project feeds.
	FeedTitle   string `koanf:"feed_title"`
	FeedBaseURL string `koanf:"feed_base_url"`

	// Metrics controls the Prometheus manager. Labels are attached to every
	// series; buckets replace the latency histogram buckets.
	MetricsEnabled        bool              `koanf:"metrics_enabled"`
	MetricsRefreshSeconds int               `koanf:"metrics_refresh_seconds"`
	MetricsPrefix         string            `koanf:"metrics_prefix"`
	MetricsLabels         map[string]string `koanf:"metrics_labels"`
	MetricsBuckets        []float64         `koanf:"metrics_buckets"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "json",
		Addr:              ":8080",
		StoreDriver:       StoreMemory,
		StorePath:         "data/matchboard.db",
		SeedDemo:          true,
		MaxMatches:        6,
		MaxAdvantages:     3,
		KeywordWeight:     3,
		RoleWeight:        2,
		AffiliationWeight: 1,
		TraitBonusMax:     6,
		FeedTitle:         "Matchboard Projects Feed",
		FeedBaseURL:       "http://localhost:8080/",

		MetricsEnabled:        true,
		MetricsRefreshSeconds: 10,
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.StoreDriver) {
	case StoreMemory:
	case StoreSQLite:
		if c.StorePath == "" {
			return fmt.Errorf("%w: store_path is required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log_format must be json or text", ErrInvalidConfig)
	}
	if c.MaxMatches <= 0 {
		return fmt.Errorf("%w: max_matches must be positive", ErrInvalidConfig)
	}
	if c.MaxAdvantages <= 0 {
		return fmt.Errorf("%w: max_advantages must be positive", ErrInvalidConfig)
	}
	if c.KeywordWeight < 0 || c.RoleWeight < 0 || c.AffiliationWeight < 0 || c.TraitBonusMax < 0 {
		return fmt.Errorf("%w: scoring weights must not be negative", ErrInvalidConfig)
	}
	if c.MetricsRefreshSeconds <= 0 {
		return fmt.Errorf("%w: metrics_refresh_seconds must be positive", ErrInvalidConfig)
	}
	for i := 1; i < len(c.MetricsBuckets); i++ {
		if c.MetricsBuckets[i] <= c.MetricsBuckets[i-1] {
			return fmt.Errorf("%w: metrics_buckets must be strictly increasing", ErrInvalidConfig)
		}
	}
	return nil
}
