// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"maps"
	"strconv"
	"time"
)

// WatchedEntitySnapshot is the full current state of a server-managed record
// as returned by a poll or reconstructed from a push event.
//
// Snapshots are replaced wholesale; Fields must not be mutated after the
// snapshot is handed to the coordinator.
type WatchedEntitySnapshot struct {
	// ID is the server-side identifier of the record.
	ID string `json:"id"`

	// Kind is the entity kind the snapshot belongs to.
	Kind EntityKind `json:"kind"`

	// Fields holds the named scalar fields of the record (booleans, strings,
	// timestamps). Missing optional fields are present with a nil value.
	Fields map[string]any `json:"fields"`

	// Version is the monotonically non-decreasing version marker, or zero
	// when the source does not provide one.
	Version int64 `json:"version,omitempty"`

	// FetchedAt is when the client obtained the snapshot.
	FetchedAt time.Time `json:"fetched_at"`
}

// ComparisonKey returns the value used to decide whether two snapshots
// describe the same state. When the source provides a version marker the key
// is the version, otherwise it is the canonical JSON encoding of Fields.
func (s WatchedEntitySnapshot) ComparisonKey() string {
	if s.Version > 0 {
		return "v:" + strconv.FormatInt(s.Version, 10)
	}
	return "f:" + CanonicalJSON(s.Fields)
}

// Equal reports whether s and other describe the same record in the same
// state. Snapshots of different records are never equal, even when their
// fields match.
func (s WatchedEntitySnapshot) Equal(other WatchedEntitySnapshot) bool {
	return s.Kind == other.Kind && s.ID == other.ID && s.ComparisonKey() == other.ComparisonKey()
}

// Clone returns a copy of s whose Fields map is not shared with s.
func (s WatchedEntitySnapshot) Clone() WatchedEntitySnapshot {
	s.Fields = maps.Clone(s.Fields)
	return s
}

// CanonicalJSON encodes v with sorted map keys. encoding/json already sorts
// map keys, so two structurally equal payloads always encode identically.
// Unencodable values yield an empty string.
func CanonicalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
