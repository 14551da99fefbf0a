// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

//go:generate mockgen -source=interfaces.go -destination=../mock/realtime_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-live-watch/models"
)

// SnapshotFetcher is the remote fetch contract used by the poll path.
// adapter.ServerAdapter satisfies it.
type SnapshotFetcher interface {
	// FetchSnapshot returns the current state of the entity kind. Network and
	// decoding failures wrap adapter.ErrTransport.
	FetchSnapshot(ctx context.Context, kind models.EntityKind) (models.WatchedEntitySnapshot, error)
}

// Transport is the remote subscribe contract used by the push path.
//
// Delivery is at-least-once and unordered across topics. onError is called
// when the underlying channel drops; after that the transport delivers
// nothing more for the returned handle.
type Transport interface {
	Subscribe(ctx context.Context, topic string, onPayload func(models.TransportPayload), onError func(error)) (string, error)

	// Unsubscribe releases the handle. It must be safe to call for a handle
	// whose channel has already failed.
	Unsubscribe(handle string) error
}

// Sink presents notifications to the user. Present is fire-and-forget.
type Sink interface {
	Present(n models.Notification)
}

// ErrorReporter is the observability hook for fetch, parse and subscribe
// failures. It never affects control flow.
type ErrorReporter interface {
	Report(component string, err error)
}

// IDGenerator produces identifiers for change records and subscription
// handles. utils.UUIDGenerator satisfies it.
type IDGenerator interface {
	Generate() string
}
