// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/go-live-watch/internal/auth"
	"github.com/MKhiriev/go-live-watch/internal/logger"
	"github.com/MKhiriev/go-live-watch/internal/notify"
	"github.com/MKhiriev/go-live-watch/internal/realtime"
	"github.com/MKhiriev/go-live-watch/models"
)

// ViewSource is the read side of the synchronization coordinator.
type ViewSource interface {
	View(kind models.EntityKind) (models.WatchedEntitySnapshot, bool)
	Forecasts() []models.WatchedEntitySnapshot
	Subscriptions() []*realtime.SubscriptionHandle
	Running() bool
}

// ToastSource lists the notifications currently on screen.
type ToastSource interface {
	Active() []notify.Toast
}

type Handler struct {
	view    ViewSource
	toasts  ToastSource
	guard   *auth.Guard
	version string

	logger *logger.Logger
}

func NewHandler(view ViewSource, toasts ToastSource, guard *auth.Guard, version string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		view:    view,
		toasts:  toasts,
		guard:   guard,
		version: version,
		logger:  logger,
	}
}
