// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package pubsub implements the push change-feed transport over AMQP 0-9-1.
//
// The backend publishes change events to a topic exchange with the entity
// kind as routing key. Each subscription declares its own exclusive,
// auto-delete queue bound to that routing key and consumes from it on a
// dedicated channel. A closed channel or connection is reported through the
// subscription's onError callback; resubscribing is left to the caller.
package pubsub
