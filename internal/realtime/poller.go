// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-live-watch/internal/logger"
	"github.com/MKhiriev/go-live-watch/models"
)

const (
	DefaultPollInterval = 30 * time.Second

	componentPoller = "poller"
)

// PollReconciler periodically fetches the snapshot of one entity kind and
// emits an updated record whenever the snapshot's comparison key changes.
type PollReconciler struct {
	kind       models.EntityKind
	fetcher    SnapshotFetcher
	normalizer *Normalizer
	interval   time.Duration
	emit       func(models.ChangeRecord)
	reporter   ErrorReporter
	logger     *logger.Logger

	mu     sync.Mutex
	last   *models.WatchedEntitySnapshot
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPollReconciler creates an idle reconciler for kind. emit receives every
// record the reconciler produces; it is called from the reconciler's own
// goroutines. A non-positive interval falls back to DefaultPollInterval.
func NewPollReconciler(kind models.EntityKind, fetcher SnapshotFetcher, normalizer *Normalizer, interval time.Duration,
	emit func(models.ChangeRecord), reporter ErrorReporter, log *logger.Logger) *PollReconciler {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PollReconciler{
		kind:       kind,
		fetcher:    fetcher,
		normalizer: normalizer,
		interval:   interval,
		emit:       emit,
		reporter:   reporter,
		logger:     log.Component(componentPoller),
	}
}

// Start stops any previous run, forgets the last snapshot and launches a
// goroutine that polls immediately and then on every tick. The goroutine
// exits when ctx is cancelled or Stop is called.
func (p *PollReconciler) Start(ctx context.Context) {
	p.Stop()

	p.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.last = nil
	gen := p.gen
	p.wg.Add(1)
	p.mu.Unlock()

	inFlight := new(atomic.Bool)

	go func() {
		defer p.wg.Done()
		t := time.NewTicker(p.interval)
		defer t.Stop()

		p.tick(runCtx, gen, inFlight)
		for {
			select {
			case <-runCtx.Done():
				return
			case <-t.C:
				p.tick(runCtx, gen, inFlight)
			}
		}
	}()
}

// Stop cancels the ticker goroutine and blocks until it and any fetch still
// in flight have exited. The in-flight fetch is cancelled through its context
// and its result is discarded, so nothing is emitted once Stop returns. Safe
// to call when the reconciler is not running.
func (p *PollReconciler) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.gen++
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// Last returns the last successfully fetched snapshot.
func (p *PollReconciler) Last() (models.WatchedEntitySnapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return models.WatchedEntitySnapshot{}, false
	}
	return p.last.Clone(), true
}

// tick starts a fetch unless one is already outstanding, in which case the
// tick is dropped.
func (p *PollReconciler) tick(ctx context.Context, gen uint64, inFlight *atomic.Bool) {
	if !inFlight.CompareAndSwap(false, true) {
		p.logger.Debug().Str("kind", p.kind.String()).Msg("poll skipped: fetch in flight")
		return
	}
	// the ticker goroutine still holds its own wg slot here
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer inFlight.Store(false)
		p.poll(ctx, gen)
	}()
}

func (p *PollReconciler) poll(ctx context.Context, gen uint64) {
	snapshot, err := p.fetcher.FetchSnapshot(ctx, p.kind)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		p.reporter.Report(componentPoller, fmt.Errorf("fetch %s snapshot: %w", p.kind, err))
		return
	}

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	seeding := p.last == nil
	if !seeding && p.last.Equal(snapshot) {
		p.mu.Unlock()
		p.logger.Debug().Str("kind", p.kind.String()).Msg("poll: no change")
		return
	}
	rec := p.normalizer.NormalizeSnapshot(snapshot)
	if rec == nil {
		p.mu.Unlock()
		return
	}
	next := snapshot.Clone()
	p.last = &next
	p.mu.Unlock()

	p.logger.Debug().
		Str("kind", p.kind.String()).
		Str("record_id", rec.ID).
		Bool("seed", seeding).
		Msg("poll: snapshot changed")
	p.emit(*rec)
}
