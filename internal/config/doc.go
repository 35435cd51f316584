// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

/*
Package config provides centralized configuration management for Mercantile.

This package handles loading, validation, and parsing of configuration for all
application components. It layers built-in defaults, an optional YAML config
file, and environment variables (highest priority) via Koanf v2, and validates
the result before anything else starts.

# Configuration Sources

The package reads configuration from:
  - Built-in defaults (always present)
  - YAML config file (config.yaml, or CONFIG_PATH override)
  - Environment variables (production/Docker, highest priority)

# Configuration Structure

The package organizes configuration into logical groups:

  - PostgresConfig: Core catalog store connection, pool, and circuit breaker
  - BadgerConfig: Embedded details and interaction store
  - AnalyticsConfig: DuckDB ranking warehouse and ETL orchestration
  - CatalogConfig: Reconciliation placeholders and image URL derivation
  - NATSConfig: Optional interaction event fan-out (Watermill/JetStream)
  - ServerConfig: HTTP server settings (host, port, timeouts)
  - APIConfig: Pagination, rate limiting, CORS
  - LoggingConfig: Log levels and output formats

# Environment Variables

Core Store (PostgresConfig):
  - POSTGRES_DSN: Connection string (required)
  - POSTGRES_MAX_CONNS: Pool size (default: 8)
  - POSTGRES_QUERY_TIMEOUT: Per-query deadline (default: 5s)
  - POSTGRES_SIMPLE_PROTOCOL: PgBouncer compatibility (default: false)

Details Store (BadgerConfig):
  - BADGER_PATH: Data directory (default: /data/badger)
  - BADGER_IN_MEMORY: Ephemeral mode for tests (default: false)

Analytics (AnalyticsConfig):
  - DUCKDB_PATH: Warehouse path (default: /data/mercantile.duckdb)
  - ETL_MIN_INTERVAL: Minimum spacing between merges (default: 10s)
  - ANALYTICS_TOP_LIMIT: Default ranking page size (default: 5)

Reconciliation (CatalogConfig):
  - IMAGE_BASE_URL: Base for derived product images
  - PLACEHOLDER_PRICE / PLACEHOLDER_STOCK / PLACEHOLDER_SKU: Synthesized core values
  - DEFAULT_USER_ID: Anonymous interaction attribution (default: User)

Events (NATSConfig):
  - NATS_ENABLED: Event fan-out toggle (default: false)
  - NATS_URL: Server URL (default: nats://127.0.0.1:4222)
  - NATS_TRIGGER_THRESHOLD: Events buffered before a merge fires (default: 50)

Server (ServerConfig):
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8094)
  - HTTP_TIMEOUT: Read/write timeout (default: 30s)

# Usage Example

Basic configuration loading:

	import "github.com/dverne/mercantile/internal/config"

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
	    log.Fatalf("Failed to load config: %v", err)
	}

	// Access configuration values
	fmt.Printf("Starting server on %s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Core store: %s\n", cfg.Postgres.DSN)
	fmt.Printf("Warehouse: %s\n", cfg.Analytics.DatabasePath)

Testing with custom configuration:

	// Override environment variables for testing
	os.Setenv("POSTGRES_DSN", "postgres://test@localhost:5432/mercantile_test")
	os.Setenv("BADGER_IN_MEMORY", "true")
	os.Setenv("HTTP_PORT", "8080")

	cfg, err := config.Load()
	// Use cfg for testing

# Validation

The package performs comprehensive validation:

  - Required fields: POSTGRES_DSN, DUCKDB_PATH, IMAGE_BASE_URL
  - Numeric ranges: HTTP_PORT (1-65535), POSTGRES_MAX_CONNS (1-1000)
  - Duration ranges: HTTP_TIMEOUT >= 1s, CATALOG_FETCH_TIMEOUT >= 1ms
  - URL formats: IMAGE_BASE_URL must be a valid HTTP(S) URL, NATS_URL a valid NATS URL

# Thread Safety

The Config struct is immutable after Load() returns, making it safe for concurrent
access from multiple goroutines without synchronization.

# Performance

Configuration loading is fast and only happens once at startup. Values are
parsed and validated during Load(), so runtime access is direct field reads
with zero overhead.
*/
package config
