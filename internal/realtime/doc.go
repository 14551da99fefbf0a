// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package realtime keeps the client's view of server-managed entities in sync
// with the server and surfaces at most one notification per distinct change.
//
// Two producers feed the Coordinator: the PollReconciler (periodic snapshot
// refresh) and the SubscriptionManager (change-feed push). Both hand
// normalized ChangeRecords to a single consumer goroutine, which updates the
// view, consults the DedupCache and hands new notifications to the Sink.
package realtime
