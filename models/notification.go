// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Notification is a user-facing message handed to the notification sink.
type Notification struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Duration    time.Duration `json:"duration_ms"`
}
