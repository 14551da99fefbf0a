// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Field names of the live_session record.
const (
	FieldIsLive    = "is_live"
	FieldTitle     = "title"
	FieldStreamURL = "stream_url"
	FieldStartedAt = "started_at"
	FieldEndedAt   = "ended_at"
)

// LiveSession is the typed form of the singleton live-session status record.
type LiveSession struct {
	ID        string     `json:"id" cbor:"id"`
	IsLive    bool       `json:"is_live" cbor:"is_live"`
	Title     *string    `json:"title,omitempty" cbor:"title,omitempty"`
	StreamURL *string    `json:"stream_url,omitempty" cbor:"stream_url,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty" cbor:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty" cbor:"ended_at,omitempty"`
	Version   int64      `json:"version,omitempty" cbor:"version,omitempty"`
}

// Fields maps the record onto the kind's declared schema. Every field is
// present; absent optional values are nil. Timestamps are rendered in UTC
// RFC 3339 so push and poll payloads compare equal.
func (l LiveSession) Fields() map[string]any {
	return map[string]any{
		FieldIsLive:    l.IsLive,
		FieldTitle:     stringOrNil(l.Title),
		FieldStreamURL: stringOrNil(l.StreamURL),
		FieldStartedAt: timeOrNil(l.StartedAt),
		FieldEndedAt:   timeOrNil(l.EndedAt),
	}
}

// Snapshot wraps the record into a snapshot fetched at the given time.
func (l LiveSession) Snapshot(fetchedAt time.Time) WatchedEntitySnapshot {
	return WatchedEntitySnapshot{
		ID:        l.ID,
		Kind:      KindLiveSession,
		Fields:    l.Fields(),
		Version:   l.Version,
		FetchedAt: fetchedAt,
	}
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func timeOrNil(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
