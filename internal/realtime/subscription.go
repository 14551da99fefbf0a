// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-live-watch/internal/logger"
	"github.com/MKhiriev/go-live-watch/models"
)

const componentSubscription = "subscription"

// SubscriptionManager opens one push subscription per topic and keeps it
// alive across transport failures. Every delivered payload goes through the
// Normalizer; only valid records reach the deliver callback.
type SubscriptionManager struct {
	transport  Transport
	normalizer *Normalizer
	deliver    func(models.ChangeRecord)
	backoff    BackoffConfig
	ids        IDGenerator
	reporter   ErrorReporter
	logger     *logger.Logger
	now        func() time.Time

	mu      sync.Mutex
	handles map[string]*SubscriptionHandle
	closed  bool
}

// NewSubscriptionManager creates a manager that hands normalized records to
// deliver. deliver is called from transport goroutines and must not block for
// long.
func NewSubscriptionManager(transport Transport, normalizer *Normalizer, deliver func(models.ChangeRecord),
	backoff BackoffConfig, ids IDGenerator, reporter ErrorReporter, log *logger.Logger) *SubscriptionManager {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SubscriptionManager{
		transport:  transport,
		normalizer: normalizer,
		deliver:    deliver,
		backoff:    backoff.withDefaults(),
		ids:        ids,
		reporter:   reporter,
		logger:     log.Component(componentSubscription),
		now:        time.Now,
		handles:    make(map[string]*SubscriptionHandle),
	}
}

// SubscriptionHandle is one logical push channel. The same handle survives
// any number of reconnects.
type SubscriptionHandle struct {
	id    string
	topic string
	mgr   *SubscriptionManager

	ctx       context.Context
	cancel    context.CancelFunc
	reconnect chan struct{}
	wg        sync.WaitGroup

	// delivering is held for reading while a payload is being normalized and
	// delivered; Close takes it for writing to wait those out.
	delivering sync.RWMutex

	mu           sync.Mutex
	state        models.SubscriptionState
	epoch        uint64
	epochFailed  bool
	transportID  string
	lastActivity time.Time
}

func (h *SubscriptionHandle) ID() string    { return h.id }
func (h *SubscriptionHandle) Topic() string { return h.topic }

func (h *SubscriptionHandle) State() models.SubscriptionState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Live reports whether the handle currently has an open transport channel.
func (h *SubscriptionHandle) Live() bool {
	return h.State() == models.SubscriptionOpen
}

// LastActivity returns when the handle last received a payload or (re)opened.
func (h *SubscriptionHandle) LastActivity() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastActivity
}

// Open subscribes to topic. When the first subscribe attempt fails the handle
// is still returned and resubscribes in the background with backoff. The
// handle lives until Close, CloseAll or ctx cancellation.
func (m *SubscriptionManager) Open(ctx context.Context, topic string) (*SubscriptionHandle, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrInvalidTopic
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	hctx, cancel := context.WithCancel(ctx)
	h := &SubscriptionHandle{
		id:        m.ids.Generate(),
		topic:     topic,
		mgr:       m,
		ctx:       hctx,
		cancel:    cancel,
		reconnect: make(chan struct{}, 1),
		state:     models.SubscriptionConnecting,
	}
	m.handles[h.id] = h
	m.mu.Unlock()

	h.wg.Add(1)
	go h.run()

	if err := h.subscribe(); err != nil {
		h.markLost(h.currentEpoch(), err)
	}
	return h, nil
}

// Close unsubscribes the handle. After Close returns no further record from
// the handle reaches the deliver callback. Close is idempotent and safe when
// the transport has already failed.
func (m *SubscriptionManager) Close(h *SubscriptionHandle) {
	if h == nil {
		return
	}

	h.mu.Lock()
	if h.state == models.SubscriptionClosed {
		h.mu.Unlock()
		return
	}
	h.state = models.SubscriptionClosed
	h.epoch++
	transportID := h.transportID
	h.transportID = ""
	h.mu.Unlock()

	h.cancel()
	if transportID != "" {
		if err := m.transport.Unsubscribe(transportID); err != nil {
			m.logger.Debug().Str("topic", h.topic).Err(err).Msg("unsubscribe failed")
		}
	}

	// wait for in-flight deliveries
	h.delivering.Lock()
	h.delivering.Unlock()
	h.wg.Wait()

	m.mu.Lock()
	delete(m.handles, h.id)
	m.mu.Unlock()

	m.logger.Info().Str("topic", h.topic).Str("subscription_id", h.id).Msg("subscription closed")
}

// CloseAll closes every open handle. The manager accepts new Open calls
// afterwards unless Shutdown was called.
func (m *SubscriptionManager) CloseAll() {
	for _, h := range m.Handles() {
		m.Close(h)
	}
}

// Shutdown closes every handle and rejects further Open calls.
func (m *SubscriptionManager) Shutdown() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.CloseAll()
}

// Handles returns the currently open handles.
func (m *SubscriptionManager) Handles() []*SubscriptionHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*SubscriptionHandle, 0, len(m.handles))
	for _, h := range m.handles {
		out = append(out, h)
	}
	return out
}

func (h *SubscriptionHandle) currentEpoch() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.epoch
}

// subscribe starts a new transport subscription under a fresh epoch.
// Callbacks from older epochs are ignored.
func (h *SubscriptionHandle) subscribe() error {
	h.mu.Lock()
	if h.state == models.SubscriptionClosed {
		h.mu.Unlock()
		return nil
	}
	h.epoch++
	h.epochFailed = false
	epoch := h.epoch
	h.mu.Unlock()

	transportID, err := h.mgr.transport.Subscribe(h.ctx, h.topic, h.onPayload(epoch), h.onError(epoch))
	if err != nil {
		return err
	}

	h.mu.Lock()
	if h.state == models.SubscriptionClosed || h.epoch != epoch {
		h.mu.Unlock()
		_ = h.mgr.transport.Unsubscribe(transportID)
		return nil
	}
	h.transportID = transportID
	if !h.epochFailed {
		h.state = models.SubscriptionOpen
		h.lastActivity = h.mgr.now()
	}
	h.mu.Unlock()

	h.mgr.logger.Info().Str("topic", h.topic).Str("subscription_id", h.id).Msg("subscription open")
	return nil
}

func (h *SubscriptionHandle) onPayload(epoch uint64) func(models.TransportPayload) {
	return func(p models.TransportPayload) {
		h.delivering.RLock()
		defer h.delivering.RUnlock()

		h.mu.Lock()
		if h.state == models.SubscriptionClosed || h.epoch != epoch {
			h.mu.Unlock()
			return
		}
		h.lastActivity = h.mgr.now()
		h.mu.Unlock()

		if p.Topic == "" {
			p.Topic = h.topic
		}
		rec := h.mgr.normalizer.Normalize(p)
		if rec == nil {
			return
		}
		h.mgr.deliver(*rec)
	}
}

func (h *SubscriptionHandle) onError(epoch uint64) func(error) {
	return func(err error) {
		h.markLost(epoch, err)
	}
}

// markLost moves the handle to lost and then reconnecting, and wakes the
// reconnect loop.
func (h *SubscriptionHandle) markLost(epoch uint64, cause error) {
	h.mu.Lock()
	if h.state == models.SubscriptionClosed || h.epoch != epoch || h.epochFailed {
		h.mu.Unlock()
		return
	}
	h.epochFailed = true
	h.state = models.SubscriptionLost
	h.mu.Unlock()

	h.mgr.reporter.Report(componentSubscription, fmt.Errorf("%w: topic %s: %w", ErrSubscriptionLost, h.topic, cause))

	h.mu.Lock()
	if h.state == models.SubscriptionLost {
		h.state = models.SubscriptionReconnecting
	}
	h.mu.Unlock()

	select {
	case h.reconnect <- struct{}{}:
	default:
	}
}

func (h *SubscriptionHandle) run() {
	defer h.wg.Done()
	b := newBackoff(h.mgr.backoff)

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.reconnect:
		}

		h.mu.Lock()
		stale := h.transportID
		h.transportID = ""
		h.mu.Unlock()
		if stale != "" {
			_ = h.mgr.transport.Unsubscribe(stale)
		}

		delay := b.Next()
		h.mgr.logger.Debug().Str("topic", h.topic).Dur("delay", delay).Msg("resubscribing")
		timer := time.NewTimer(delay)
		select {
		case <-h.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := h.subscribe(); err != nil {
			h.markLost(h.currentEpoch(), err)
			continue
		}
		if h.Live() {
			b.Reset()
		}
	}
}
