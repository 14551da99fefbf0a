// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-live-watch/internal/logger"
	"github.com/MKhiriev/go-live-watch/models"
)

const (
	componentCoordinator = "coordinator"

	handoffBuffer = 64
)

// CoordinatorConfig selects what the coordinator watches and how.
type CoordinatorConfig struct {
	// Topics are opened as push subscriptions on Start.
	Topics []string

	// PollKinds each get a poll reconciler on Start.
	PollKinds []models.EntityKind

	PollInterval         time.Duration
	NotificationDuration time.Duration
	DedupCapacity        int
	Backoff              BackoffConfig
}

// Coordinator owns the authoritative view. Poll and push records are handed
// to a single consumer goroutine that updates the view, consults the dedup
// cache and presents new notifications.
type Coordinator struct {
	cfg        CoordinatorConfig
	fetcher    SnapshotFetcher
	transport  Transport
	sink       Sink
	ids        IDGenerator
	reporter   ErrorReporter
	logger     *logger.Logger
	normalizer *Normalizer
	composer   Composer
	dedup      *DedupCache

	// lifecycle serializes Start and Stop.
	lifecycle sync.Mutex
	cancel    context.CancelFunc
	pollers   []*PollReconciler
	subs      *SubscriptionManager
	consumer  sync.WaitGroup

	// mu guards the fields below and is the serialized mutation point.
	mu        sync.RWMutex
	running   bool
	gen       uint64
	done      chan struct{}
	session   *models.WatchedEntitySnapshot
	forecasts map[string]models.WatchedEntitySnapshot
	latest    string

	// versions holds the highest version marker applied per dedup key.
	versions map[models.DedupKey]int64
}

// NewCoordinator wires a coordinator. A nil transport disables the push path
// and a nil fetcher disables the poll path.
func NewCoordinator(cfg CoordinatorConfig, fetcher SnapshotFetcher, transport Transport, sink Sink,
	ids IDGenerator, reporter ErrorReporter, log *logger.Logger) *Coordinator {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{
		cfg:        cfg,
		fetcher:    fetcher,
		transport:  transport,
		sink:       sink,
		ids:        ids,
		reporter:   reporter,
		logger:     log.Component(componentCoordinator),
		normalizer: NewNormalizer(ids, reporter, log),
		composer:   NewComposer(cfg.NotificationDuration),
		dedup:      NewDedupCache(cfg.DedupCapacity),
		forecasts:  make(map[string]models.WatchedEntitySnapshot),
		versions:   make(map[models.DedupKey]int64),
	}
}

type handoff struct {
	gen uint64
	rec models.ChangeRecord
}

// Start opens one subscription per topic, then starts one poll reconciler per
// polled kind, each polling immediately. Calling Start while running is a
// no-op.
func (c *Coordinator) Start(ctx context.Context) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	c.gen++
	gen := c.gen
	done := make(chan struct{})
	c.done = done
	c.clearViewLocked()
	c.mu.Unlock()

	c.dedup.Reset()

	in := make(chan handoff, handoffBuffer)
	c.consumer.Add(1)
	go c.consume(in, done)
	deliver := c.handoffFunc(gen, in, done)

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	if c.transport != nil && len(c.cfg.Topics) > 0 {
		c.subs = NewSubscriptionManager(c.transport, c.normalizer, deliver, c.cfg.Backoff, c.ids, c.reporter, c.logger)
		for _, topic := range c.cfg.Topics {
			if _, err := c.subs.Open(runCtx, topic); err != nil {
				c.stopLocked()
				return fmt.Errorf("open subscription %q: %w", topic, err)
			}
		}
	}

	if c.fetcher != nil {
		for _, kind := range c.cfg.PollKinds {
			p := NewPollReconciler(kind, c.fetcher, c.normalizer, c.cfg.PollInterval, deliver, c.reporter, c.logger)
			c.pollers = append(c.pollers, p)
			p.Start(runCtx)
		}
	}

	c.logger.Info().
		Strs("topics", c.cfg.Topics).
		Int("pollers", len(c.pollers)).
		Msg("synchronization started")
	return nil
}

// Stop tears down in order: poll timers, subscriptions, dedup cache, view.
// Records that arrive once Stop has begun are discarded. Stop is idempotent
// and safe to call before Start.
func (c *Coordinator) Stop() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	c.stopLocked()
}

func (c *Coordinator) stopLocked() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.gen++
	close(c.done)
	c.mu.Unlock()

	c.consumer.Wait()

	for _, p := range c.pollers {
		p.Stop()
	}
	c.pollers = nil

	if c.subs != nil {
		c.subs.Shutdown()
		c.subs = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	c.dedup.Reset()

	c.mu.Lock()
	c.clearViewLocked()
	c.mu.Unlock()

	c.logger.Info().Msg("synchronization stopped")
}

// Running reports whether the coordinator has been started and not stopped.
func (c *Coordinator) Running() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// View returns the current snapshot of kind. For forecasts it is the most
// recently applied forecast.
func (c *Coordinator) View(kind models.EntityKind) (models.WatchedEntitySnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch kind {
	case models.KindLiveSession:
		if c.session == nil {
			return models.WatchedEntitySnapshot{}, false
		}
		return c.session.Clone(), true
	case models.KindForecast:
		f, ok := c.forecasts[c.latest]
		if !ok {
			return models.WatchedEntitySnapshot{}, false
		}
		return f.Clone(), true
	default:
		return models.WatchedEntitySnapshot{}, false
	}
}

// Forecasts returns every known forecast, oldest first.
func (c *Coordinator) Forecasts() []models.WatchedEntitySnapshot {
	c.mu.RLock()
	out := make([]models.WatchedEntitySnapshot, 0, len(c.forecasts))
	for _, f := range c.forecasts {
		out = append(out, f.Clone())
	}
	c.mu.RUnlock()

	slices.SortFunc(out, func(a, b models.WatchedEntitySnapshot) int {
		if n := a.FetchedAt.Compare(b.FetchedAt); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Subscriptions returns the open push handles.
func (c *Coordinator) Subscriptions() []*SubscriptionHandle {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	if c.subs == nil {
		return nil
	}
	return c.subs.Handles()
}

// handoffFunc returns the callback both producers use. It never blocks past
// teardown.
func (c *Coordinator) handoffFunc(gen uint64, in chan<- handoff, done <-chan struct{}) func(models.ChangeRecord) {
	return func(rec models.ChangeRecord) {
		select {
		case <-done:
			return
		default:
		}
		select {
		case in <- handoff{gen: gen, rec: rec}:
		case <-done:
		}
	}
}

func (c *Coordinator) consume(in <-chan handoff, done <-chan struct{}) {
	defer c.consumer.Done()
	for {
		select {
		case <-done:
			return
		case h := <-in:
			c.apply(h)
		}
	}
}

// apply is the only place the view and the dedup cache change while running.
func (c *Coordinator) apply(h handoff) {
	rec := h.rec

	c.mu.Lock()
	if !c.running || h.gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug().Str("record_id", rec.ID).Msg("record discarded after teardown")
		return
	}
	if c.staleLocked(rec) {
		c.mu.Unlock()
		c.logger.Debug().Str("record_id", rec.ID).Int64("version", rec.Version).Msg("stale record dropped")
		return
	}
	c.applyViewLocked(rec)
	notify := c.dedup.ShouldNotify(rec.DedupKey(), rec.Payload)
	c.mu.Unlock()

	log := c.logger.Debug().
		Str("record_id", rec.ID).
		Str("kind", rec.EntityKind.String()).
		Str("entity_id", rec.EntityID).
		Str("change", string(rec.ChangeKind)).
		Str("source", string(rec.Source))
	if !notify {
		log.Msg("duplicate change suppressed")
		return
	}

	n, ok := c.composer.Compose(rec)
	if !ok {
		log.Msg("change applied without notification")
		return
	}
	log.Str("title", n.Title).Msg("notifying")
	if c.sink != nil {
		c.sink.Present(n)
	}
}

// staleLocked reports whether rec carries a version marker older than one
// already applied for the same key, and records newer markers.
func (c *Coordinator) staleLocked(rec models.ChangeRecord) bool {
	if rec.Version <= 0 {
		return false
	}
	key := rec.DedupKey()
	if rec.Version < c.versions[key] {
		return true
	}
	c.versions[key] = rec.Version
	return false
}

func (c *Coordinator) applyViewLocked(rec models.ChangeRecord) {
	switch rec.EntityKind {
	case models.KindLiveSession:
		if rec.ChangeKind == models.ChangeDeleted {
			c.session = nil
			return
		}
		s := rec.Snapshot()
		c.session = &s
	case models.KindForecast:
		if rec.ChangeKind == models.ChangeDeleted {
			delete(c.forecasts, rec.EntityID)
			if c.latest == rec.EntityID {
				c.latest = ""
			}
			return
		}
		c.forecasts[rec.EntityID] = rec.Snapshot()
		c.latest = rec.EntityID
	}
}

func (c *Coordinator) clearViewLocked() {
	c.session = nil
	c.forecasts = make(map[string]models.WatchedEntitySnapshot)
	c.latest = ""
	c.versions = make(map[models.DedupKey]int64)
}
