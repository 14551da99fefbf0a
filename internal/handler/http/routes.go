// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Compress(5, "application/json"))

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/health", h.health)
		r.Get("/api/version", h.getVersion)
		r.Get(h.guard.RedirectTo(), h.accessDenied)
	})

	// routes behind the role guard
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/api/view/{kind}", h.getView)
		r.Get("/api/forecasts", h.getForecasts)
		r.Get("/api/notifications", h.getNotifications)
		r.Get("/api/subscriptions", h.getSubscriptions)
	})

	return router
}
