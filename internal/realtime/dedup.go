// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"container/list"
	"sync"

	"github.com/MKhiriev/go-live-watch/models"
)

// DedupCache remembers which changes were already surfaced to the user.
//
// Alert keys pass at most once. Singleton keys pass whenever their payload
// differs structurally from the last payload that passed. The zero value is
// not usable; create caches with NewDedupCache.
type DedupCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[models.DedupKey]*list.Element
	order    *list.List
}

type dedupEntry struct {
	key     models.DedupKey
	payload string
}

// NewDedupCache creates a cache holding at most capacity keys, evicting the
// oldest first. A capacity of zero or less means unbounded.
func NewDedupCache(capacity int) *DedupCache {
	return &DedupCache{
		capacity: capacity,
		entries:  make(map[models.DedupKey]*list.Element),
		order:    list.New(),
	}
}

// ShouldNotify checks key and marks it seen in one step. Concurrent callers
// with the same key and payload get true at most once between them.
func (c *DedupCache) ShouldNotify(key models.DedupKey, payload map[string]any) bool {
	var canonical string
	if key.EntityKind.IsSingleton() {
		canonical = models.CanonicalJSON(payload)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*dedupEntry)
		if !key.EntityKind.IsSingleton() || entry.payload == canonical {
			return false
		}
		entry.payload = canonical
		c.order.MoveToBack(el)
		return true
	}

	c.entries[key] = c.order.PushBack(&dedupEntry{key: key, payload: canonical})
	if c.capacity > 0 {
		for c.order.Len() > c.capacity {
			oldest := c.order.Front()
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*dedupEntry).key)
		}
	}
	return true
}

// Reset discards every remembered key.
func (c *DedupCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[models.DedupKey]*list.Element)
	c.order.Init()
}

// Len returns the number of remembered keys.
func (c *DedupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
