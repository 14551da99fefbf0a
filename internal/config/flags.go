// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the client flags from args (usually os.Args[1:]).
//
// Flags:
//
//	-a status server address in format [host]:[port]
//	-s backend REST API base address
//	-b broker AMQP URL
//	-u user id
//	-token bearer token
//	-role role required to view the status endpoints
//	-poll-interval poll cadence (e.g. "30s")
//	-request-timeout fetch timeout (e.g. "10s")
//	-topics comma separated push topics
//	-dedup-capacity dedup cache bound, 0 for unbounded
//	-dashboard run the interactive terminal dashboard
//	-log-level minimum log level (debug, info, warn, error)
//	-c/-config JSON or YAML config file path
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("live-watch", flag.ContinueOnError)

	var serverAddress NetAddress
	var adapterAddress, brokerURL, token, role, topics, configPath, logLevel string
	var userID int64
	var pollInterval, requestTimeout time.Duration
	var dedupCapacity int
	var dashboard bool

	fs.Var(&serverAddress, "a", "Status server address host:port")
	fs.StringVar(&adapterAddress, "s", "", "Backend REST API address")
	fs.StringVar(&brokerURL, "b", "", "Broker AMQP URL")
	fs.Int64Var(&userID, "u", 0, "User id")
	fs.StringVar(&token, "token", "", "Bearer token")
	fs.StringVar(&role, "role", "", "Role required to view status endpoints")
	fs.DurationVar(&pollInterval, "poll-interval", 0, "Poll interval (e.g., 30s)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 10s)")
	fs.StringVar(&topics, "topics", "", "Comma separated push topics")
	fs.IntVar(&dedupCapacity, "dedup-capacity", 0, "Dedup cache capacity, 0 for unbounded")
	fs.BoolVar(&dashboard, "dashboard", false, "Run the interactive terminal dashboard")
	fs.StringVar(&logLevel, "log-level", "", "Minimum log level")
	fs.StringVar(&configPath, "c", "", "Config file path")
	fs.StringVar(&configPath, "config", "", "Config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			UserID:       userID,
			Token:        token,
			RequiredRole: role,
			Dashboard:    dashboard,
			LogLevel:     logLevel,
		},
		Adapter: Adapter{
			HTTPAddress:    adapterAddress,
			RequestTimeout: requestTimeout,
		},
		Broker: Broker{
			URL: brokerURL,
		},
		Sync: Sync{
			PollInterval:  pollInterval,
			Topics:        splitList(topics),
			DedupCapacity: dedupCapacity,
		},
		Server: Server{
			HTTPAddress: serverAddress.String(),
		},
		ConfigFilePath: configPath,
	}, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
