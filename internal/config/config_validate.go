// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validatePostgres(); err != nil {
		return err
	}

	if err := c.validateBadger(); err != nil {
		return err
	}

	if err := c.validateAnalytics(); err != nil {
		return err
	}

	if err := c.validateCatalog(); err != nil {
		return err
	}

	if err := c.validateNATS(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validatePostgres validates core store configuration.
func (c *Config) validatePostgres() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required")
	}

	if c.Postgres.MaxConns < 1 || c.Postgres.MaxConns > 1000 {
		return fmt.Errorf("POSTGRES_MAX_CONNS must be between 1 and 1000")
	}

	if c.Postgres.MinConns < 0 || c.Postgres.MinConns > c.Postgres.MaxConns {
		return fmt.Errorf("POSTGRES_MIN_CONNS must be between 0 and POSTGRES_MAX_CONNS")
	}

	if c.Postgres.QueryTimeout < time.Millisecond {
		return fmt.Errorf("POSTGRES_QUERY_TIMEOUT must be at least 1ms")
	}

	return c.validateBreaker()
}

// validateBreaker validates the core store circuit breaker settings.
func (c *Config) validateBreaker() error {
	if c.Postgres.BreakerMinRequests < 1 {
		return fmt.Errorf("POSTGRES_BREAKER_MIN_REQUESTS must be at least 1")
	}

	if c.Postgres.BreakerFailureRatio <= 0 || c.Postgres.BreakerFailureRatio > 1 {
		return fmt.Errorf("POSTGRES_BREAKER_RATIO must be greater than 0 and at most 1")
	}

	if c.Postgres.BreakerMaxHalfOpen < 1 {
		return fmt.Errorf("POSTGRES_BREAKER_HALF_OPEN must be at least 1")
	}

	return nil
}

// validateBadger validates details store configuration.
func (c *Config) validateBadger() error {
	if !c.Badger.InMemory && c.Badger.Path == "" {
		return fmt.Errorf("BADGER_PATH is required unless BADGER_IN_MEMORY=true")
	}

	if c.Badger.GCDiscardRatio <= 0 || c.Badger.GCDiscardRatio >= 1 {
		return fmt.Errorf("BADGER_GC_DISCARD_RATIO must be between 0 and 1 exclusive")
	}

	return nil
}

// validateAnalytics validates warehouse and ETL configuration.
func (c *Config) validateAnalytics() error {
	if c.Analytics.DatabasePath == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}

	if c.Analytics.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}

	if c.Analytics.MinRunInterval < 0 {
		return fmt.Errorf("ETL_MIN_INTERVAL must not be negative")
	}

	if c.Analytics.ScheduleEnabled && c.Analytics.ScheduleInterval < time.Second {
		return fmt.Errorf("ETL_SCHEDULE_INTERVAL must be at least 1s when scheduling is enabled")
	}

	if c.Analytics.TopMaxLimit < 1 || c.Analytics.TopMaxLimit > 1000 {
		return fmt.Errorf("ANALYTICS_TOP_MAX_LIMIT must be between 1 and 1000")
	}

	if c.Analytics.TopDefaultLimit < 1 || c.Analytics.TopDefaultLimit > c.Analytics.TopMaxLimit {
		return fmt.Errorf("ANALYTICS_TOP_LIMIT must be between 1 and ANALYTICS_TOP_MAX_LIMIT")
	}

	return nil
}

// validateCatalog validates reconciliation configuration.
func (c *Config) validateCatalog() error {
	if c.Catalog.ImageBaseURL == "" {
		return fmt.Errorf("IMAGE_BASE_URL is required")
	}
	if err := validateBaseImageURL(c.Catalog.ImageBaseURL); err != nil {
		return fmt.Errorf("IMAGE_BASE_URL is invalid: %w", err)
	}

	if c.Catalog.PlaceholderPrice < 0 {
		return fmt.Errorf("PLACEHOLDER_PRICE must not be negative")
	}

	if c.Catalog.PlaceholderStock < 0 {
		return fmt.Errorf("PLACEHOLDER_STOCK must not be negative")
	}

	if c.Catalog.PlaceholderSKU == "" {
		return fmt.Errorf("PLACEHOLDER_SKU must not be empty")
	}

	if c.Catalog.DefaultUserID == "" {
		return fmt.Errorf("DEFAULT_USER_ID must not be empty")
	}

	if c.Catalog.FetchTimeout < time.Millisecond {
		return fmt.Errorf("CATALOG_FETCH_TIMEOUT must be at least 1ms")
	}

	return nil
}

// validateNATS validates event bus configuration (only if enabled).
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil // NATS is optional - no validation needed when disabled
	}

	if c.NATS.URL == "" {
		return fmt.Errorf("NATS_URL is required when NATS_ENABLED=true")
	}
	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}

	if c.NATS.EmbeddedServer && c.NATS.StoreDir == "" {
		return fmt.Errorf("NATS_STORE_DIR is required when NATS_EMBEDDED=true")
	}

	if c.NATS.SubscribersCount < 1 || c.NATS.SubscribersCount > 64 {
		return fmt.Errorf("NATS_SUBSCRIBERS must be between 1 and 64")
	}

	if c.NATS.TriggerThreshold < 1 {
		return fmt.Errorf("NATS_TRIGGER_THRESHOLD must be at least 1")
	}

	if c.NATS.MaxDeliver < 1 {
		return fmt.Errorf("NATS_MAX_DELIVER must be at least 1")
	}

	return nil
}

// validateServer validates HTTP server configuration.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}

	if c.Server.Host == "" {
		return fmt.Errorf("HTTP_HOST must not be empty")
	}

	if c.Server.Timeout < time.Second {
		return fmt.Errorf("HTTP_TIMEOUT must be at least 1s")
	}

	switch c.Server.Environment {
	case "development", "staging", "production", "test":
		return nil
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging, production, or test")
	}
}

// validateAPI validates API behavior configuration.
func (c *Config) validateAPI() error {
	if c.API.MaxPageSize < 1 || c.API.MaxPageSize > 1000 {
		return fmt.Errorf("API_MAX_PAGE_SIZE must be between 1 and 1000")
	}

	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be between 1 and API_MAX_PAGE_SIZE")
	}

	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.API.RateLimitWindow < time.Second {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s")
		}
	}

	return nil
}

// validateLogging validates logging configuration.
func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, fatal, panic, disabled")
	}

	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
}
