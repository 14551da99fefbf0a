// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/MKhiriev/go-live-watch/internal/adapter"
	"github.com/MKhiriev/go-live-watch/internal/auth"
	"github.com/MKhiriev/go-live-watch/internal/config"
	handler "github.com/MKhiriev/go-live-watch/internal/handler/http"
	"github.com/MKhiriev/go-live-watch/internal/logger"
	"github.com/MKhiriev/go-live-watch/internal/notify"
	"github.com/MKhiriev/go-live-watch/internal/pubsub"
	"github.com/MKhiriev/go-live-watch/internal/realtime"
	"github.com/MKhiriev/go-live-watch/internal/server"
	"github.com/MKhiriev/go-live-watch/internal/tui"
	"github.com/MKhiriev/go-live-watch/internal/utils"
	"github.com/MKhiriev/go-live-watch/models"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	cfg *config.ClientConfig

	coordinator *realtime.Coordinator
	feed        *pubsub.ChangeFeed
	console     *notify.Console
	guard       *auth.Guard
	server      server.Server
	dashboard   *tui.TUI

	logger *logger.Logger
}

// Options replace the default process dependencies. Zero fields use the
// real implementations. Console is ignored when the dashboard is enabled.
type Options struct {
	Console io.Writer
	Dial    pubsub.Dialer
}

func NewApp(cfg *config.ClientConfig, opts Options, log *logger.Logger) (*App, error) {
	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, log.Component("adapter"))
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	ids := utils.NewUUIDGenerator()
	app := &App{cfg: cfg, logger: log}

	// a nil *ChangeFeed must not end up inside the Transport interface
	var transport realtime.Transport
	if cfg.Broker.Enabled() {
		dial := opts.Dial
		if dial == nil {
			dial = pubsub.DialAMQP
		}
		app.feed, err = pubsub.NewChangeFeed(cfg.Broker, dial, ids, log.Component("pubsub"))
		if err != nil {
			return nil, fmt.Errorf("create change feed: %w", err)
		}
		transport = app.feed
	} else {
		log.Warn().Msg("broker is not configured, push channel disabled")
	}

	recent := notify.NewRecent()
	sinks := notify.Fanout{notify.NewLog(log), recent}
	if opts.Console != nil && !cfg.App.Dashboard {
		app.console = notify.NewConsole(opts.Console)
		sinks = append(sinks, app.console)
	}

	app.coordinator = realtime.NewCoordinator(coordinatorConfig(cfg), serverAdapter, transport, sinks,
		ids, realtime.NewLogReporter(log), log)
	app.guard = auth.NewGuard(serverAdapter, cfg.App.RequiredRole, "", log)

	if cfg.App.Dashboard {
		app.dashboard = tui.New(app.coordinator, recent, tui.DefaultRefreshInterval, log.Component("tui"))
	}

	if cfg.Server.HTTPAddress != "" {
		h := handler.NewHandler(app.coordinator, recent, app.guard, cfg.App.Version, log.Component("http"))
		app.server, err = server.NewServer(h.Init(), cfg.Server, log)
		if err != nil {
			return nil, fmt.Errorf("create status server: %w", err)
		}
	}

	return app, nil
}

func coordinatorConfig(cfg *config.ClientConfig) realtime.CoordinatorConfig {
	kinds := func(names []string) []models.EntityKind {
		out := make([]models.EntityKind, 0, len(names))
		for _, n := range names {
			out = append(out, models.EntityKind(n))
		}
		return out
	}

	return realtime.CoordinatorConfig{
		Topics:               cfg.Sync.Topics,
		PollKinds:            kinds(cfg.Sync.PollKinds),
		PollInterval:         cfg.Sync.PollInterval,
		NotificationDuration: cfg.App.NotificationDuration,
		DedupCapacity:        cfg.Sync.DedupCapacity,
		Backoff: realtime.BackoffConfig{
			Base:   cfg.Broker.ReconnectBase,
			Cap:    cfg.Broker.ReconnectCap,
			Jitter: float64(cfg.Broker.ReconnectJitterPercent) / 100,
		},
	}
}

// authorize checks the configured user id, or the user named by the
// configured token when no id is set.
func (a *App) authorize(ctx context.Context) (auth.Decision, error) {
	if a.cfg.App.UserID > 0 {
		return a.guard.Check(ctx, a.cfg.App.UserID)
	}
	userID, decision, err := a.guard.CheckToken(ctx, a.cfg.App.Token)
	if decision == auth.Allow && userID > 0 {
		a.logger.Debug().Int64("user_id", userID).Msg("user resolved from token")
	}
	return decision, err
}

// Run checks the configured user against the role guard, starts watching
// and serving, and tears everything down once ctx is done or the user quits
// the dashboard.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	decision, err := a.authorize(ctx)
	if decision != auth.Allow {
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	}

	if err = a.coordinator.Start(ctx); err != nil {
		_ = a.closeResources()
		return fmt.Errorf("start coordinator: %w", err)
	}

	if a.server != nil {
		if err = a.server.RunServer(); err != nil {
			a.coordinator.Stop()
			_ = a.closeResources()
			return err
		}
		a.logger.Info().Str("address", a.server.Addr()).Msg("status server started")
	}

	dashboardDone := make(chan struct{})
	if a.dashboard == nil {
		close(dashboardDone)
	} else {
		go func() {
			defer close(dashboardDone)
			defer cancel()
			if err := a.dashboard.Run(ctx); err != nil && !errors.Is(err, tui.ErrUserQuit) {
				a.logger.Err(err).Msg("dashboard stopped")
			}
		}()
	}

	<-ctx.Done()
	a.logger.Info().Msg("shutting down")

	var errs []error
	if a.server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		errs = append(errs, a.server.Shutdown(shutdownCtx))
		shutdownCancel()
	}
	a.coordinator.Stop()
	errs = append(errs, a.closeResources())
	<-dashboardDone

	return errors.Join(errs...)
}

// Coordinator returns the synchronization coordinator.
func (a *App) Coordinator() *realtime.Coordinator { return a.coordinator }

func (a *App) closeResources() error {
	if a.console != nil {
		a.console.Close()
	}
	if a.feed == nil {
		return nil
	}
	return a.feed.Close()
}
