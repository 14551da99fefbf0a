// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"maps"
	"time"
)

// ChangeRecord is a transport-agnostic representation of one observed change.
//
// The same underlying server change may produce several records (duplicate
// push delivery, overlapping poll windows, reconnect replay). Records are
// immutable once created.
type ChangeRecord struct {
	// ID identifies this observation, not the underlying change. It is only
	// used to correlate log entries.
	ID string `json:"id"`

	EntityKind EntityKind `json:"entity_kind"`
	EntityID   string     `json:"entity_id"`
	ChangeKind ChangeKind `json:"change_kind"`

	// Payload is the record's field set after normalization. For deleted
	// records it holds the last known fields, if the transport provided them.
	Payload map[string]any `json:"payload"`

	// Version is the version marker carried by the record, zero if absent.
	Version int64 `json:"version,omitempty"`

	ObservedAt time.Time    `json:"observed_at"`
	Source     ChangeSource `json:"source"`
}

// NewChangeRecord builds a record that owns a private copy of payload.
func NewChangeRecord(id string, kind EntityKind, entityID string, change ChangeKind, payload map[string]any, version int64, source ChangeSource, observedAt time.Time) ChangeRecord {
	return ChangeRecord{
		ID:         id,
		EntityKind: kind,
		EntityID:   entityID,
		ChangeKind: change,
		Payload:    maps.Clone(payload),
		Version:    version,
		ObservedAt: observedAt,
		Source:     source,
	}
}

// DedupKey derives the deduplication identity of the record: the kind and
// entity id for alert kinds, the kind alone for singleton kinds.
func (r ChangeRecord) DedupKey() DedupKey {
	if r.EntityKind.IsSingleton() {
		return DedupKey{EntityKind: r.EntityKind}
	}
	return DedupKey{EntityKind: r.EntityKind, EntityID: r.EntityID}
}

// Snapshot converts the record into the snapshot that replaces the view.
func (r ChangeRecord) Snapshot() WatchedEntitySnapshot {
	return WatchedEntitySnapshot{
		ID:        r.EntityID,
		Kind:      r.EntityKind,
		Fields:    maps.Clone(r.Payload),
		Version:   r.Version,
		FetchedAt: r.ObservedAt,
	}
}

// DedupKey is the identity used to collapse several observations of the same
// logical change into one notification.
type DedupKey struct {
	EntityKind EntityKind
	EntityID   string
}

func (k DedupKey) String() string {
	if k.EntityID == "" {
		return string(k.EntityKind)
	}
	return string(k.EntityKind) + "/" + k.EntityID
}
