// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid fetch adapter settings
	// (for example, missing HTTP address or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidBrokerConfigs indicates invalid change-feed broker settings.
	ErrInvalidBrokerConfigs = errors.New("invalid broker configuration")
	// ErrInvalidSyncConfigs indicates invalid poll or topic settings.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidAppConfigs indicates missing user identity.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
)
