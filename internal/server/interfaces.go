// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "context"

// Server defines the lifecycle contract of the status server.
type Server interface {
	// RunServer starts serving requests in the background. Startup errors
	// are returned; errors after startup are logged.
	RunServer() error

	// Shutdown gracefully stops the server within ctx.
	Shutdown(ctx context.Context) error

	// Addr returns the bound listen address.
	Addr() string
}
