// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"math/rand/v2"
	"sync"
	"time"
)

const (
	DefaultReconnectBase   = 1 * time.Second
	DefaultReconnectCap    = 30 * time.Second
	DefaultReconnectJitter = 0.25

	backoffMultiplier = 2.0
)

// BackoffConfig tunes the resubscription delay of the push path.
// Zero values fall back to the defaults above.
type BackoffConfig struct {
	Base time.Duration
	Cap  time.Duration

	// Jitter is the maximum extra delay as a fraction of the base delay.
	Jitter float64
}

func (c BackoffConfig) withDefaults() BackoffConfig {
	if c.Base <= 0 {
		c.Base = DefaultReconnectBase
	}
	if c.Cap <= 0 {
		c.Cap = DefaultReconnectCap
	}
	if c.Cap < c.Base {
		c.Cap = c.Base
	}
	if c.Jitter < 0 {
		c.Jitter = 0
	}
	return c
}

// backoff computes capped exponential delays with jitter.
type backoff struct {
	mu      sync.Mutex
	cfg     BackoffConfig
	current time.Duration
	random  func() float64
}

func newBackoff(cfg BackoffConfig) *backoff {
	cfg = cfg.withDefaults()
	return &backoff{cfg: cfg, current: cfg.Base, random: rand.Float64}
}

// Next returns the delay to wait before the next attempt and doubles the
// base delay up to the cap.
func (b *backoff) Next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	delay := b.current
	if b.cfg.Jitter > 0 {
		delay += time.Duration(float64(b.current) * b.cfg.Jitter * b.random())
	}

	next := time.Duration(float64(b.current) * backoffMultiplier)
	if next > b.cfg.Cap {
		next = b.cfg.Cap
	}
	b.current = next

	return delay
}

// Reset starts the sequence over after a successful attempt.
func (b *backoff) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.cfg.Base
}
