// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client wires the realtime synchronization layer into a single
// process: backend adapter, change-feed transport, notification sinks,
// coordinator, role guard and the local status server.
package client
