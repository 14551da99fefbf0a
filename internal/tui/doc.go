// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui renders the synchronized view as an interactive terminal
// dashboard: the live session status, known forecasts, push subscription
// states and the notifications currently on screen.
package tui
