// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/mercantile/config.yaml",
	"/etc/mercantile/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Postgres: PostgresConfig{
			DSN:            "",
			MaxConns:       8,
			MinConns:       2,
			ConnectTimeout: 5 * time.Second,
			QueryTimeout:   5 * time.Second,
			SimpleProtocol: false,

			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      2 * time.Minute,
			BreakerMaxHalfOpen:  3,
		},
		Badger: BadgerConfig{
			Path:           "/data/badger",
			InMemory:       false,
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Analytics: AnalyticsConfig{
			DatabasePath:     "/data/mercantile.duckdb",
			MaxMemory:        "2GB",
			Threads:          0, // 0 = use runtime.NumCPU()
			MinRunInterval:   10 * time.Second,
			ScheduleEnabled:  false, // On-demand ETL is the primary path
			ScheduleInterval: 10 * time.Minute,
			TopDefaultLimit:  5,
			TopMaxLimit:      100,
		},
		Catalog: CatalogConfig{
			ImageBaseURL:     "https://storage.googleapis.com/placeholder-bucket",
			FallbackImageURL: "", // Derived from ImageBaseURL when empty
			PlaceholderPrice: 39.99,
			PlaceholderStock: 999,
			PlaceholderSKU:   "SYNTH-001",
			DefaultCategory:  "Generic",
			DefaultUserID:    "User",
			FetchTimeout:     5 * time.Second,
			SeedDemoData:     false, // Opt-in; production stores arrive populated
		},
		NATS: NATSConfig{
			Enabled:        false, // Opt-in; requires a binary built with -tags nats
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: true,
			StoreDir:       "/data/nats/jetstream",
			MaxMemory:      1 << 30,  // 1GB
			MaxStore:       10 << 30, // 10GB

			SubscribersCount: 4,
			DurableName:      "interaction-processor",
			QueueGroup:       "interactions",
			TriggerThreshold: 50,
			AckWait:          30 * time.Second,
			MaxDeliver:       5,
			MaxAckPending:    1000,
			CloseTimeout:     30 * time.Second,
		},
		Server: ServerConfig{
			Port:        8094,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development", // Set ENVIRONMENT=production for production checks
		},
		API: APIConfig{
			DefaultPageSize:   20,
			MaxPageSize:       100,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// This function is the preferred way to load configuration and provides:
//   - Type-safe configuration unmarshaling
//   - Clear precedence: ENV > File > Defaults
//   - Support for nested configuration via koanf struct tags
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// POSTGRES_DSN -> postgres.dsn
	// DUCKDB_PATH -> analytics.database_path
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Derive the fallback image URL from the base when not set explicitly
	if cfg.Catalog.FallbackImageURL == "" && cfg.Catalog.ImageBaseURL != "" {
		cfg.Catalog.FallbackImageURL = strings.TrimSuffix(cfg.Catalog.ImageBaseURL, "/") + "/placeholder.jpg"
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		// If it's a string, split by comma
		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Only explicitly mapped variables are honored; everything else is skipped so
// that unrelated environment variables cannot pollute the configuration.
//
// Examples:
//   - POSTGRES_DSN -> postgres.dsn
//   - BADGER_PATH -> badger.path
//   - DUCKDB_PATH -> analytics.database_path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Postgres core store mappings
		"postgres_dsn":                  "postgres.dsn",
		"postgres_max_conns":            "postgres.max_conns",
		"postgres_min_conns":            "postgres.min_conns",
		"postgres_connect_timeout":      "postgres.connect_timeout",
		"postgres_query_timeout":        "postgres.query_timeout",
		"postgres_simple_protocol":      "postgres.simple_protocol",
		"postgres_breaker_min_requests": "postgres.breaker_min_requests",
		"postgres_breaker_ratio":        "postgres.breaker_failure_ratio",
		"postgres_breaker_interval":     "postgres.breaker_interval",
		"postgres_breaker_timeout":      "postgres.breaker_timeout",
		"postgres_breaker_half_open":    "postgres.breaker_max_half_open",

		// Badger details store mappings
		"badger_path":             "badger.path",
		"badger_in_memory":        "badger.in_memory",
		"badger_gc_interval":      "badger.gc_interval",
		"badger_gc_discard_ratio": "badger.gc_discard_ratio",

		// Analytics warehouse mappings
		"duckdb_path":             "analytics.database_path",
		"duckdb_max_memory":       "analytics.max_memory",
		"duckdb_threads":          "analytics.threads",
		"etl_min_interval":        "analytics.min_run_interval",
		"etl_schedule_enabled":    "analytics.schedule_enabled",
		"etl_schedule_interval":   "analytics.schedule_interval",
		"analytics_top_limit":     "analytics.top_default_limit",
		"analytics_top_max_limit": "analytics.top_max_limit",

		// Catalog reconciliation mappings
		"image_base_url":        "catalog.image_base_url",
		"fallback_image_url":    "catalog.fallback_image_url",
		"placeholder_price":     "catalog.placeholder_price",
		"placeholder_stock":     "catalog.placeholder_stock",
		"placeholder_sku":       "catalog.placeholder_sku",
		"default_category":      "catalog.default_category",
		"default_user_id":       "catalog.default_user_id",
		"catalog_fetch_timeout": "catalog.fetch_timeout",
		"seed_demo_data":        "catalog.seed_demo_data",

		// NATS mappings
		"nats_enabled":           "nats.enabled",
		"nats_url":               "nats.url",
		"nats_embedded":          "nats.embedded_server",
		"nats_store_dir":         "nats.store_dir",
		"nats_max_memory":        "nats.max_memory",
		"nats_max_store":         "nats.max_store",
		"nats_subscribers":       "nats.subscribers_count",
		"nats_durable_name":      "nats.durable_name",
		"nats_queue_group":       "nats.queue_group",
		"nats_trigger_threshold": "nats.trigger_threshold",
		"nats_ack_wait":          "nats.ack_wait",
		"nats_max_deliver":       "nats.max_deliver",
		"nats_max_ack_pending":   "nats.max_ack_pending",
		"nats_close_timeout":     "nats.close_timeout",

		// Server mappings
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// API mappings
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",
		"rate_limit_requests":   "api.rate_limit_reqs",
		"rate_limit_window":     "api.rate_limit_window",
		"disable_rate_limit":    "api.rate_limit_disabled",
		"cors_origins":          "api.cors_origins",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}

// GetKoanfInstance returns a new Koanf instance for advanced usage.
// This is useful for:
//   - Hot-reload scenarios (with proper mutex protection)
//   - Custom configuration sources
//   - Testing with mock configurations
func GetKoanfInstance() *koanf.Koanf {
	return koanf.New(".")
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// Note: The caller is responsible for mutex protection when accessing
// configuration during reloads.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	// Start watching the file for changes
	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
