// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNetAddress_String tests the String method of NetAddress
func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{name: "empty address", addr: NetAddress{}, expected: ""},
		{name: "localhost with port", addr: NetAddress{Host: "localhost", Port: 8080}, expected: "localhost:8080"},
		{name: "IP address with port", addr: NetAddress{Host: "127.0.0.1", Port: 9090}, expected: "127.0.0.1:9090"},
		{name: "only port no host", addr: NetAddress{Host: "", Port: 8080}, expected: ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

// TestNetAddress_Set tests the Set method of NetAddress
func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectError  bool
		expectedHost string
		expectedPort int
	}{
		{name: "localhost", input: "localhost:8080", expectedHost: "localhost", expectedPort: 8080},
		{name: "ipv4", input: "127.0.0.1:9000", expectedHost: "127.0.0.1", expectedPort: 9000},
		{name: "missing port", input: "localhost", expectError: true},
		{name: "non numeric port", input: "localhost:http", expectError: true},
		{name: "zero port", input: "localhost:0", expectError: true},
		{name: "bad ip", input: "example:8080", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedHost, a.Host)
			assert.Equal(t, tt.expectedPort, a.Port)
		})
	}
}

func TestParseFlags_AllFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-a", "localhost:9000",
		"-s", "http://api:8080",
		"-b", "amqp://broker",
		"-u", "7",
		"-token", "tkn",
		"-role", "subscriber",
		"-poll-interval", "45s",
		"-request-timeout", "2s",
		"-topics", "forecast, live_session",
		"-dedup-capacity", "64",
		"-config", "/etc/live-watch.yaml",
	})

	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", cfg.Server.HTTPAddress)
	assert.Equal(t, "http://api:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 2*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "amqp://broker", cfg.Broker.URL)
	assert.Equal(t, int64(7), cfg.App.UserID)
	assert.Equal(t, "tkn", cfg.App.Token)
	assert.Equal(t, "subscriber", cfg.App.RequiredRole)
	assert.Equal(t, 45*time.Second, cfg.Sync.PollInterval)
	assert.Equal(t, []string{"forecast", "live_session"}, cfg.Sync.Topics)
	assert.Equal(t, 64, cfg.Sync.DedupCapacity)
	assert.Equal(t, "/etc/live-watch.yaml", cfg.ConfigFilePath)
}

func TestParseFlags_NoFlags(t *testing.T) {
	cfg, err := ParseFlags(nil)

	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseFlags_InvalidAddress(t *testing.T) {
	_, err := ParseFlags([]string{"-a", "nowhere"})
	assert.Error(t, err)
}

func TestParseFlags_Dashboard(t *testing.T) {
	cfg, err := ParseFlags([]string{"-dashboard", "-log-level", "warn"})
	require.NoError(t, err)
	assert.True(t, cfg.App.Dashboard)
	assert.Equal(t, "warn", cfg.App.LogLevel)

	cfg, err = ParseFlags(nil)
	require.NoError(t, err)
	assert.False(t, cfg.App.Dashboard)
}
