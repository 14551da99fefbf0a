// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-live-watch/internal/logger"
	"github.com/MKhiriev/go-live-watch/internal/notify"
	"github.com/MKhiriev/go-live-watch/internal/realtime"
	"github.com/MKhiriev/go-live-watch/models"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

const DefaultRefreshInterval = 500 * time.Millisecond

var ErrUserQuit = errors.New("user quit the dashboard")

// Source is the read side of the synchronization coordinator.
type Source interface {
	View(kind models.EntityKind) (models.WatchedEntitySnapshot, bool)
	Forecasts() []models.WatchedEntitySnapshot
	Subscriptions() []*realtime.SubscriptionHandle
	Running() bool
}

// ToastSource lists the notifications currently on screen.
type ToastSource interface {
	Active() []notify.Toast
}

type TUI struct {
	source  Source
	toasts  ToastSource
	refresh time.Duration
	logger  *logger.Logger
}

func New(source Source, toasts ToastSource, refresh time.Duration, log *logger.Logger) *TUI {
	if refresh <= 0 {
		refresh = DefaultRefreshInterval
	}
	return &TUI{source: source, toasts: toasts, refresh: refresh, logger: log}
}

// Run shows the dashboard until ctx is done or the user quits. Quitting
// returns ErrUserQuit so the caller can tear the process down.
func (t *TUI) Run(ctx context.Context) error {
	model := newDashboardModel(t.source, t.toasts, t.refresh, clipboard.WriteAll)
	finalModel, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	if result, ok := finalModel.(dashboardModel); ok && result.quitting {
		t.logger.Info().Msg("dashboard closed by user")
		return ErrUserQuit
	}
	return nil
}
