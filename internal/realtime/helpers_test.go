// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-live-watch/models"
)

// seqIDs hands out rec-1, rec-2, ...
type seqIDs struct{ n atomic.Int64 }

func (g *seqIDs) Generate() string {
	return fmt.Sprintf("rec-%d", g.n.Add(1))
}

// spyReporter collects reported errors.
type spyReporter struct {
	mu   sync.Mutex
	errs []error
}

func (r *spyReporter) Report(_ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *spyReporter) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

func (r *spyReporter) Has(target error) bool {
	for _, err := range r.Errors() {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// spySink records presented notifications.
type spySink struct {
	mu    sync.Mutex
	notes []models.Notification
}

func (s *spySink) Present(n models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, n)
}

func (s *spySink) Notes() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.notes...)
}

func (s *spySink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

// fetchResult is one scripted FetchSnapshot outcome.
type fetchResult struct {
	snapshot models.WatchedEntitySnapshot
	err      error
}

// scriptedFetcher returns results in order and repeats the last one.
type scriptedFetcher struct {
	mu      sync.Mutex
	results []fetchResult
	calls   atomic.Int64
	delay   time.Duration
	block   chan struct{}
}

func (f *scriptedFetcher) FetchSnapshot(ctx context.Context, _ models.EntityKind) (models.WatchedEntitySnapshot, error) {
	n := int(f.calls.Add(1))
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return models.WatchedEntitySnapshot{}, ctx.Err()
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.results) == 0 {
		return models.WatchedEntitySnapshot{}, errors.New("no scripted result")
	}
	if n > len(f.results) {
		n = len(f.results)
	}
	r := f.results[n-1]
	return r.snapshot.Clone(), r.err
}

func liveSnapshot(isLive bool, title string) models.WatchedEntitySnapshot {
	s := models.LiveSession{ID: "ls", IsLive: isLive}
	if title != "" {
		s.Title = &title
	}
	return s.Snapshot(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

// fakeTransport is an in-memory Transport. Each Subscribe registers a
// subscription that tests drive through Deliver and Fail.
type fakeTransport struct {
	mu        sync.Mutex
	subs      map[string]*fakeSub
	seq       int
	failNext  int
	subErr    error
	subscribe atomic.Int64
	unsub     atomic.Int64
}

type fakeSub struct {
	topic     string
	onPayload func(models.TransportPayload)
	onError   func(error)
	active    bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{subs: make(map[string]*fakeSub), subErr: errors.New("broker unavailable")}
}

func (t *fakeTransport) Subscribe(_ context.Context, topic string, onPayload func(models.TransportPayload), onError func(error)) (string, error) {
	t.subscribe.Add(1)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failNext > 0 {
		t.failNext--
		return "", t.subErr
	}
	t.seq++
	id := fmt.Sprintf("sub-%d", t.seq)
	t.subs[id] = &fakeSub{topic: topic, onPayload: onPayload, onError: onError, active: true}
	return id, nil
}

func (t *fakeTransport) Unsubscribe(handle string) error {
	t.unsub.Add(1)
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.subs[handle]; ok {
		s.active = false
	}
	return nil
}

// active returns the callbacks of every live subscription on topic.
func (t *fakeTransport) active(topic string) []*fakeSub {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []*fakeSub
	for _, s := range t.subs {
		if s.active && s.topic == topic {
			out = append(out, s)
		}
	}
	return out
}

func (t *fakeTransport) ActiveCount(topic string) int {
	return len(t.active(topic))
}

// Deliver pushes body to every live subscription on topic.
func (t *fakeTransport) Deliver(topic string, body string) {
	for _, s := range t.active(topic) {
		s.onPayload(models.TransportPayload{
			Topic:       topic,
			ContentType: models.ContentTypeJSON,
			Body:        []byte(body),
			ReceivedAt:  time.Now(),
		})
	}
}

// Fail drops every live subscription on topic.
func (t *fakeTransport) Fail(topic string, err error) {
	subs := t.active(topic)
	t.mu.Lock()
	for _, s := range subs {
		s.active = false
	}
	t.mu.Unlock()
	for _, s := range subs {
		s.onError(err)
	}
}

func forecastEvent(eventType, id, symbol, bias string) string {
	return fmt.Sprintf(`{"table":"forecasts","type":%q,"record":{"id":%q,"symbol":%q,"bias":%q,"message":"breakout"}}`,
		eventType, id, symbol, bias)
}

func sessionEvent(isLive bool, title string) string {
	return fmt.Sprintf(`{"table":"live_session","type":"UPDATE","record":{"id":"ls","is_live":%t,"title":%q}}`, isLive, title)
}

func versionedSessionEvent(isLive bool, version int64) string {
	return fmt.Sprintf(`{"table":"live_session","type":"UPDATE","record":{"id":"ls","is_live":%t,"version":%d}}`, isLive, version)
}
