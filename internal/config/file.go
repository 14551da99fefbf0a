// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk layout of the optional config file. The same
// struct is decoded from JSON or YAML.
type FileConfig struct {
	App struct {
		UserID               int64    `json:"user_id" yaml:"user_id"`
		Token                string   `json:"token" yaml:"token"`
		RequiredRole         string   `json:"required_role" yaml:"required_role"`
		NotificationDuration Duration `json:"notification_duration" yaml:"notification_duration"`
		Version              string   `json:"version" yaml:"version"`
		Dashboard            bool     `json:"dashboard" yaml:"dashboard"`
		LogLevel             string   `json:"log_level" yaml:"log_level"`
	} `json:"app,omitempty" yaml:"app,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"adapter,omitempty" yaml:"adapter,omitempty"`

	Broker struct {
		URL                    string   `json:"url" yaml:"url"`
		Exchange               string   `json:"exchange" yaml:"exchange"`
		QueuePrefix            string   `json:"queue_prefix" yaml:"queue_prefix"`
		ReconnectBase          Duration `json:"reconnect_base" yaml:"reconnect_base"`
		ReconnectCap           Duration `json:"reconnect_cap" yaml:"reconnect_cap"`
		ReconnectJitterPercent int      `json:"reconnect_jitter_percent" yaml:"reconnect_jitter_percent"`
	} `json:"broker,omitempty" yaml:"broker,omitempty"`

	Sync struct {
		PollInterval  Duration `json:"poll_interval" yaml:"poll_interval"`
		Topics        []string `json:"topics" yaml:"topics"`
		PollKinds     []string `json:"poll_kinds" yaml:"poll_kinds"`
		DedupCapacity int      `json:"dedup_capacity" yaml:"dedup_capacity"`
	} `json:"sync,omitempty" yaml:"sync,omitempty"`

	Server struct {
		HTTPAddress string `json:"http_address" yaml:"http_address"`
	} `json:"server,omitempty" yaml:"server,omitempty"`
}

func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fileCfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		if err = json.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	return fileCfg.toStructured(), nil
}

func (f *FileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			UserID:               f.App.UserID,
			Token:                f.App.Token,
			RequiredRole:         f.App.RequiredRole,
			NotificationDuration: time.Duration(f.App.NotificationDuration),
			Version:              f.App.Version,
			Dashboard:            f.App.Dashboard,
			LogLevel:             f.App.LogLevel,
		},
		Adapter: Adapter{
			HTTPAddress:    f.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(f.Adapter.RequestTimeout),
		},
		Broker: Broker{
			URL:                    f.Broker.URL,
			Exchange:               f.Broker.Exchange,
			QueuePrefix:            f.Broker.QueuePrefix,
			ReconnectBase:          time.Duration(f.Broker.ReconnectBase),
			ReconnectCap:           time.Duration(f.Broker.ReconnectCap),
			ReconnectJitterPercent: f.Broker.ReconnectJitterPercent,
		},
		Sync: Sync{
			PollInterval:  time.Duration(f.Sync.PollInterval),
			Topics:        f.Sync.Topics,
			PollKinds:     f.Sync.PollKinds,
			DedupCapacity: f.Sync.DedupCapacity,
		},
		Server: Server{
			HTTPAddress: f.Server.HTTPAddress,
		},
	}
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "1h" or "30s" in both JSON and YAML, and from plain numbers of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if ns, err := time.ParseDuration(raw); err == nil {
		*d = Duration(ns)
		return nil
	}

	var n int64
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %q", raw)
	}
	*d = Duration(time.Duration(n))
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}
