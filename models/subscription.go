// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SubscriptionState is the lifecycle state of a push subscription.
//
//	connecting → open → (lost → reconnecting → open) | closed
type SubscriptionState uint8

const (
	SubscriptionConnecting SubscriptionState = iota
	SubscriptionOpen
	SubscriptionLost
	SubscriptionReconnecting
	SubscriptionClosed
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionConnecting:
		return "CONNECTING"
	case SubscriptionOpen:
		return "OPEN"
	case SubscriptionLost:
		return "LOST"
	case SubscriptionReconnecting:
		return "RECONNECTING"
	case SubscriptionClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
