// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

package config

import (
	"strings"
	"testing"
)

// validTestConfig returns a config that passes Validate().
func validTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Postgres.DSN = testDSN
	return cfg
}

// TestValidateAcceptsDefaults verifies defaults plus a DSN validate cleanly
func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := validTestConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}
}

// TestValidateRejections exercises each validator's failure modes
func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "missing postgres dsn",
			mutate:  func(c *Config) { c.Postgres.DSN = "" },
			wantMsg: "POSTGRES_DSN",
		},
		{
			name:    "max conns out of range",
			mutate:  func(c *Config) { c.Postgres.MaxConns = 0 },
			wantMsg: "POSTGRES_MAX_CONNS",
		},
		{
			name:    "min conns above max",
			mutate:  func(c *Config) { c.Postgres.MinConns = 50 },
			wantMsg: "POSTGRES_MIN_CONNS",
		},
		{
			name:    "breaker ratio above one",
			mutate:  func(c *Config) { c.Postgres.BreakerFailureRatio = 1.5 },
			wantMsg: "POSTGRES_BREAKER_RATIO",
		},
		{
			name: "badger path required when persistent",
			mutate: func(c *Config) {
				c.Badger.InMemory = false
				c.Badger.Path = ""
			},
			wantMsg: "BADGER_PATH",
		},
		{
			name:    "gc discard ratio bounds",
			mutate:  func(c *Config) { c.Badger.GCDiscardRatio = 1.0 },
			wantMsg: "BADGER_GC_DISCARD_RATIO",
		},
		{
			name:    "missing duckdb path",
			mutate:  func(c *Config) { c.Analytics.DatabasePath = "" },
			wantMsg: "DUCKDB_PATH",
		},
		{
			name: "top limit above max",
			mutate: func(c *Config) {
				c.Analytics.TopDefaultLimit = 500
				c.Analytics.TopMaxLimit = 100
			},
			wantMsg: "ANALYTICS_TOP_LIMIT",
		},
		{
			name:    "missing image base url",
			mutate:  func(c *Config) { c.Catalog.ImageBaseURL = "" },
			wantMsg: "IMAGE_BASE_URL",
		},
		{
			name:    "image base url with query",
			mutate:  func(c *Config) { c.Catalog.ImageBaseURL = "https://cdn.example.com/bucket?v=1" },
			wantMsg: "IMAGE_BASE_URL",
		},
		{
			name:    "negative placeholder price",
			mutate:  func(c *Config) { c.Catalog.PlaceholderPrice = -1 },
			wantMsg: "PLACEHOLDER_PRICE",
		},
		{
			name:    "empty placeholder sku",
			mutate:  func(c *Config) { c.Catalog.PlaceholderSKU = "" },
			wantMsg: "PLACEHOLDER_SKU",
		},
		{
			name:    "empty default user id",
			mutate:  func(c *Config) { c.Catalog.DefaultUserID = "" },
			wantMsg: "DEFAULT_USER_ID",
		},
		{
			name: "nats enabled with bad url",
			mutate: func(c *Config) {
				c.NATS.Enabled = true
				c.NATS.URL = "http://localhost:4222"
			},
			wantMsg: "NATS_URL",
		},
		{
			name: "nats trigger threshold zero",
			mutate: func(c *Config) {
				c.NATS.Enabled = true
				c.NATS.TriggerThreshold = 0
			},
			wantMsg: "NATS_TRIGGER_THRESHOLD",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantMsg: "HTTP_PORT",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.Server.Environment = "qa" },
			wantMsg: "ENVIRONMENT",
		},
		{
			name:    "default page size above max",
			mutate:  func(c *Config) { c.API.DefaultPageSize = 500 },
			wantMsg: "API_DEFAULT_PAGE_SIZE",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantMsg: "LOG_LEVEL",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantMsg: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantMsg)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

// TestValidateNATSDisabledSkipsChecks verifies disabled NATS is never validated
func TestValidateNATSDisabledSkipsChecks(t *testing.T) {
	cfg := validTestConfig()
	cfg.NATS.Enabled = false
	cfg.NATS.URL = "not a url at all"
	cfg.NATS.TriggerThreshold = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v, want nil when NATS disabled", err)
	}
}

// TestValidateBaseImageURL exercises the image base URL validator directly
func TestValidateBaseImageURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https with bucket path", "https://storage.googleapis.com/placeholder-bucket", false},
		{"plain https host", "https://cdn.example.com", false},
		{"http allowed", "http://localhost:9000/bucket", false},
		{"bad scheme", "ftp://cdn.example.com", true},
		{"missing host", "https://", true},
		{"query params", "https://cdn.example.com/b?sig=abc", true},
		{"fragment", "https://cdn.example.com/b#frag", true},
		{"trailing slash", "https://cdn.example.com/bucket/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBaseImageURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateBaseImageURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

// TestValidateNATSURL exercises the NATS URL validator directly
func TestValidateNATSURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"nats scheme", "nats://127.0.0.1:4222", false},
		{"tls scheme", "tls://nats.example.com:4222", false},
		{"ws scheme", "ws://localhost:8080", false},
		{"http rejected", "http://localhost:4222", true},
		{"missing host", "nats://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateNATSURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateNATSURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
