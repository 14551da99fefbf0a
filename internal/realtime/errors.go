// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import "errors"

var (
	// ErrMalformedPayload marks a structurally invalid change payload. The
	// payload is dropped and the error is only reported.
	ErrMalformedPayload = errors.New("malformed change payload")

	// ErrSubscriptionLost marks a dropped push channel. The subscription
	// manager resubscribes on its own.
	ErrSubscriptionLost = errors.New("subscription lost")

	// ErrClosed is returned when opening a subscription on a closed manager.
	ErrClosed = errors.New("subscription manager is closed")

	ErrInvalidTopic = errors.New("invalid subscription topic")
)
