// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package notify

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-live-watch/models"
)

// Toast is a presented notification with its visibility window.
type Toast struct {
	models.Notification
	ShownAt   time.Time `json:"shown_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Recent keeps the notifications that are still on screen, i.e. presented
// less than their Duration ago.
type Recent struct {
	mu     sync.Mutex
	toasts []Toast
	now    func() time.Time
}

func NewRecent() *Recent {
	return &Recent{now: time.Now}
}

func (r *Recent) Present(n models.Notification) {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(now)
	r.toasts = append(r.toasts, Toast{Notification: n, ShownAt: now, ExpiresAt: now.Add(n.Duration)})
}

// Active returns the toasts that have not expired, oldest first.
func (r *Recent) Active() []Toast {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(now)
	return append([]Toast(nil), r.toasts...)
}

func (r *Recent) pruneLocked(now time.Time) {
	kept := r.toasts[:0]
	for _, t := range r.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	r.toasts = kept
}
