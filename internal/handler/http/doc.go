// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http exposes the synchronized view over a read-only REST API.
//
// Every request gets a trace id and an access log line. View routes sit
// behind the role guard: the user id is read from the bearer token, the guard
// resolves the remote role check before the handler runs, and denied requests
// are redirected.
package http
