// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// ClientApp holds identity and presentation settings of the client.
type ClientApp struct {
	// UserID is the id of the user the client runs for.
	UserID int64
	// Token is the bearer token for outbound requests.
	Token string
	// RequiredRole gates the status endpoints; empty disables the check.
	RequiredRole string
	// NotificationDuration is how long a notification stays on screen.
	NotificationDuration time.Duration
	// Version is the application version.
	Version string
	// Dashboard selects the interactive terminal dashboard.
	Dashboard bool
	// LogLevel is the minimum log level; empty keeps debug.
	LogLevel string
}

// ClientAdapter holds the remote fetch endpoint settings.
type ClientAdapter struct {
	// HTTPAddress is the backend REST API base address.
	HTTPAddress string
	// RequestTimeout bounds a single outbound request.
	RequestTimeout time.Duration
}

// ClientBroker holds the push change-feed settings.
type ClientBroker struct {
	URL                    string
	Exchange               string
	QueuePrefix            string
	ReconnectBase          time.Duration
	ReconnectCap           time.Duration
	ReconnectJitterPercent int
}

// Enabled reports whether the push path is configured.
func (b ClientBroker) Enabled() bool {
	return b.URL != ""
}

// ClientSync holds the synchronization layer settings.
type ClientSync struct {
	PollInterval  time.Duration
	Topics        []string
	PollKinds     []string
	DedupCapacity int
}

// ClientServer holds the local status server settings.
type ClientServer struct {
	// HTTPAddress is the listen address; empty disables the server.
	HTTPAddress string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Broker  ClientBroker
	Sync    ClientSync
	Server  ClientServer
}

// GetClientConfig builds and validates the client config view from the
// merged structured configuration. args are the command-line arguments
// without the program name.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			UserID:               cfg.App.UserID,
			Token:                cfg.App.Token,
			RequiredRole:         cfg.App.RequiredRole,
			NotificationDuration: cfg.App.NotificationDuration,
			Version:              cfg.App.Version,
			Dashboard:            cfg.App.Dashboard,
			LogLevel:             cfg.App.LogLevel,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Broker: ClientBroker{
			URL:                    cfg.Broker.URL,
			Exchange:               cfg.Broker.Exchange,
			QueuePrefix:            cfg.Broker.QueuePrefix,
			ReconnectBase:          cfg.Broker.ReconnectBase,
			ReconnectCap:           cfg.Broker.ReconnectCap,
			ReconnectJitterPercent: cfg.Broker.ReconnectJitterPercent,
		},
		Sync: ClientSync{
			PollInterval:  cfg.Sync.PollInterval,
			Topics:        cfg.Sync.Topics,
			PollKinds:     cfg.Sync.PollKinds,
			DedupCapacity: cfg.Sync.DedupCapacity,
		},
		Server: ClientServer{
			HTTPAddress: cfg.Server.HTTPAddress,
		},
	}
}
