// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-live-watch client. It is populated by merging defaults, environment
// variables, command-line flags, and an optional JSON or YAML file.
//
// Struct tags:
//   - envPrefix is the prefix applied to all nested env tag lookups (caarlos0/env).
//   - env is the direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds identity and presentation settings.
	App App `envPrefix:"APP_"`

	// Adapter holds the remote fetch endpoint settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Broker holds the push change-feed connection settings.
	Broker Broker `envPrefix:"BROKER_"`

	// Sync holds poll cadence, watched topics and dedup tuning.
	Sync Sync `envPrefix:"SYNC_"`

	// Server holds the local status HTTP server settings.
	Server Server `envPrefix:"SERVER_"`

	// ConfigFilePath is the optional path to a JSON or YAML configuration
	// file, chosen by extension. Populated via the CONFIG environment
	// variable or the -c / -config flag.
	ConfigFilePath string `env:"CONFIG"`
}

// App holds identity and presentation settings.
type App struct {
	// UserID is the id of the user the client runs for.
	// Env: APP_USER_ID
	UserID int64 `env:"USER_ID"`

	// Token is the bearer token attached to outbound requests. When set, the
	// user id may be taken from its "sub" claim instead of UserID.
	// Env: APP_TOKEN
	Token string `env:"TOKEN"`

	// RequiredRole is the role checked by the authorization guard before the
	// status endpoints are served. Empty disables the check.
	// Env: APP_REQUIRED_ROLE
	RequiredRole string `env:"REQUIRED_ROLE"`

	// NotificationDuration is how long a notification stays on screen.
	// Env: APP_NOTIFICATION_DURATION
	NotificationDuration time.Duration `env:"NOTIFICATION_DURATION"`

	// Version is the application version shown in build info output.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// Dashboard runs the interactive terminal dashboard instead of plain
	// console notifications.
	// Env: APP_DASHBOARD
	Dashboard bool `env:"DASHBOARD"`

	// LogLevel is the minimum zerolog level, e.g. "info". Empty keeps debug.
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Adapter holds the remote fetch endpoint settings.
type Adapter struct {
	// HTTPAddress is the base address of the backend REST API.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single snapshot fetch.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Broker holds the push change-feed connection settings.
type Broker struct {
	// URL is the AMQP URL of the change feed. Empty disables the push path.
	// Env: BROKER_URL
	URL string `env:"URL"`

	// Exchange is the topic exchange the change feed publishes to.
	// Env: BROKER_EXCHANGE
	Exchange string `env:"EXCHANGE"`

	// QueuePrefix prefixes the exclusive per-topic queues.
	// Env: BROKER_QUEUE_PREFIX
	QueuePrefix string `env:"QUEUE_PREFIX"`

	// ReconnectBase is the first resubscription delay.
	// Env: BROKER_RECONNECT_BASE
	ReconnectBase time.Duration `env:"RECONNECT_BASE"`

	// ReconnectCap bounds the resubscription delay.
	// Env: BROKER_RECONNECT_CAP
	ReconnectCap time.Duration `env:"RECONNECT_CAP"`

	// ReconnectJitterPercent adds up to this percentage of each delay at random.
	// Env: BROKER_RECONNECT_JITTER_PERCENT
	ReconnectJitterPercent int `env:"RECONNECT_JITTER_PERCENT"`
}

// Sync holds poll cadence, watched topics and dedup tuning.
type Sync struct {
	// PollInterval is the fixed poll cadence.
	// Env: SYNC_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`

	// Topics lists the entity kinds subscribed on the push channel.
	// Env: SYNC_TOPICS (comma separated)
	Topics []string `env:"TOPICS" envSeparator:","`

	// PollKinds lists the entity kinds refreshed by the poll channel.
	// Env: SYNC_POLL_KINDS (comma separated)
	PollKinds []string `env:"POLL_KINDS" envSeparator:","`

	// DedupCapacity bounds the dedup cache; zero keeps it unbounded.
	// Env: SYNC_DEDUP_CAPACITY
	DedupCapacity int `env:"DEDUP_CAPACITY"`
}

// Server holds the local status HTTP server settings.
type Server struct {
	// HTTPAddress is the listen address of the status server in
	// "host:port" form. Empty disables the server.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
}

// Defaults applied before any other source.
const (
	DefaultPollInterval           = 30 * time.Second
	DefaultRequestTimeout         = 10 * time.Second
	DefaultReconnectBase          = time.Second
	DefaultReconnectCap           = 30 * time.Second
	DefaultReconnectJitterPercent = 25
	DefaultNotificationDuration   = 5 * time.Second
	DefaultExchange               = "change_feed"
	DefaultQueuePrefix            = "live-watch"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			NotificationDuration: DefaultNotificationDuration,
		},
		Adapter: Adapter{
			RequestTimeout: DefaultRequestTimeout,
		},
		Broker: Broker{
			Exchange:               DefaultExchange,
			QueuePrefix:            DefaultQueuePrefix,
			ReconnectBase:          DefaultReconnectBase,
			ReconnectCap:           DefaultReconnectCap,
			ReconnectJitterPercent: DefaultReconnectJitterPercent,
		},
		Sync: Sync{
			PollInterval: DefaultPollInterval,
			Topics:       []string{"live_session", "forecast"},
			PollKinds:    []string{"live_session"},
		},
	}
}

// GetStructuredConfig loads, merges, and validates the configuration from all
// available sources in the following priority order (later sources override
// earlier non-zero fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags
//  4. JSON or YAML file (path resolved from sources 2 and 3)
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(args).
		withFile().
		build()
}
