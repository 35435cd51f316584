// Mercantile - Product Catalog Reconciliation and Analytics
// Copyright 2026 D. Verne (dverne)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dverne/mercantile

//go:build nats

package events

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/nats-io/nats-server/v2/server"

	"github.com/dverne/mercantile/internal/config"
)

const (
	defaultServerHost = "127.0.0.1"
	defaultServerPort = 4222

	serverReadyTimeout = 30 * time.Second
)

// EmbeddedServer wraps an in-process NATS JetStream server with lifecycle
// management. It gives single-instance deployments a durable event bus
// without an external broker.
type EmbeddedServer struct {
	server    *server.Server
	clientURL string
}

// NewEmbeddedServer creates and starts an embedded NATS server using the
// host and port from cfg.URL and the JetStream limits from cfg.
// Returns an error if the server fails to start within 30 seconds.
func NewEmbeddedServer(cfg config.NATSConfig) (*EmbeddedServer, error) {
	host, port, err := splitListenAddr(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing NATS URL %q: %w", cfg.URL, err)
	}

	opts := &server.Options{
		ServerName:         "mercantile-events",
		Host:               host,
		Port:               port,
		JetStream:          true,
		StoreDir:           cfg.StoreDir,
		JetStreamMaxMemory: cfg.MaxMemory,
		JetStreamMaxStore:  cfg.MaxStore,
		Debug:              false,
		Trace:              false,
		NoLog:              false,
		MaxPayload:         8 * 1024 * 1024, // 8MB max message size
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}

	ns.ConfigureLogger()

	// Start in background
	go ns.Start()

	if !ns.ReadyForConnections(serverReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready within timeout")
	}

	return &EmbeddedServer{
		server:    ns,
		clientURL: ns.ClientURL(),
	}, nil
}

// splitListenAddr extracts the bind host and port from a nats:// URL.
// Missing components fall back to the localhost defaults.
func splitListenAddr(rawURL string) (string, int, error) {
	if rawURL == "" {
		return defaultServerHost, defaultServerPort, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", 0, err
	}

	host := u.Hostname()
	if host == "" {
		// Bare "host:port" without a scheme parses into Path.
		if h, p, splitErr := net.SplitHostPort(rawURL); splitErr == nil {
			host = h
			port, convErr := strconv.Atoi(p)
			if convErr != nil {
				return "", 0, fmt.Errorf("invalid port %q: %w", p, convErr)
			}
			return host, port, nil
		}
		host = defaultServerHost
	}

	port := defaultServerPort
	if u.Port() != "" {
		port, err = strconv.Atoi(u.Port())
		if err != nil {
			return "", 0, fmt.Errorf("invalid port %q: %w", u.Port(), err)
		}
	}

	return host, port, nil
}

// ClientURL returns the connection URL for clients.
func (s *EmbeddedServer) ClientURL() string {
	return s.clientURL
}

// Shutdown gracefully stops the server.
// Waits for in-flight messages to complete or context cancellation.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	s.server.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.WaitForShutdown()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// IsRunning returns server health status.
func (s *EmbeddedServer) IsRunning() bool {
	return s.server.Running()
}
