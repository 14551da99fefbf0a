// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package notify provides the notification sinks the coordinator presents
// to: a styled console toast, a structured log line, an in-memory list of
// active toasts for the status server, and a fan-out over several sinks.
package notify
