// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EntityKind names a server-managed record type watched by the client.
// The string value matches the table name used by the change feed.
type EntityKind string

const (
	// KindLiveSession is the singleton live-session status record.
	KindLiveSession EntityKind = "live_session"

	// KindForecast is the append-only stream of forecast alerts.
	KindForecast EntityKind = "forecast"
)

// IsSingleton reports whether only the latest state of the kind matters.
// Singleton kinds collapse their dedup key to the kind alone.
func (k EntityKind) IsSingleton() bool {
	return k == KindLiveSession
}

// Valid reports whether k is one of the known entity kinds.
func (k EntityKind) Valid() bool {
	switch k {
	case KindLiveSession, KindForecast:
		return true
	default:
		return false
	}
}

func (k EntityKind) String() string {
	return string(k)
}

// ChangeKind describes what happened to an entity.
type ChangeKind string

const (
	ChangeInserted ChangeKind = "inserted"
	ChangeUpdated  ChangeKind = "updated"
	ChangeDeleted  ChangeKind = "deleted"
)

// ChangeSource tells which delivery path observed a change.
type ChangeSource string

const (
	SourcePoll ChangeSource = "poll"
	SourcePush ChangeSource = "push"
)
