// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Content types understood by the change-event normalizer.
const (
	ContentTypeJSON = "application/json"
	ContentTypeCBOR = "application/cbor"
)

// TransportPayload is a raw change event as delivered by the push transport.
type TransportPayload struct {
	Topic       string
	ContentType string
	Body        []byte
	ReceivedAt  time.Time
}

// Change-feed event types.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)
