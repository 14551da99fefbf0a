// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport-layer abstraction used to pull state
// from the backend.
//
// The primary abstraction is [ServerAdapter], which decouples the poll
// reconciler and the authorization guard from the underlying protocol. The
// package ships an HTTP/REST implementation ([NewHTTPServerAdapter]).
//
// Every failure is wrapped with [ErrTransport] so the synchronization layer
// can treat network, status and decoding problems alike, while the more
// specific sentinels (e.g. [ErrUnauthorized] for 401) stay reachable through
// [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-live-watch/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the backend.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all subsequent requests.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// FetchSnapshot returns the full current state of the given entity kind.
	// For the forecast kind this is the most recent forecast.
	// Returns an error wrapping [ErrTransport] on network, status or parse
	// failure.
	FetchSnapshot(ctx context.Context, kind models.EntityKind) (models.WatchedEntitySnapshot, error)

	// HasRole asks the backend whether userID holds role.
	HasRole(ctx context.Context, userID int64, role string) (bool, error)
}
