// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-live-watch/internal/logger"
	"github.com/MKhiriev/go-live-watch/internal/notify"
	"github.com/MKhiriev/go-live-watch/internal/utils"
	"github.com/MKhiriev/go-live-watch/models"
	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error string `json:"error"`
}

type subscriptionResponse struct {
	ID           string    `json:"id"`
	Topic        string    `json:"topic"`
	State        string    `json:"state"`
	LastActivity time.Time `json:"last_activity,omitzero"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !h.view.Running() {
		status = "stopped"
	}
	h.write(w, r, map[string]string{"status": status}, http.StatusOK)
}

func (h *Handler) getVersion(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, map[string]string{"version": h.version}, http.StatusOK)
}

func (h *Handler) accessDenied(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, errorResponse{Error: "access denied"}, http.StatusForbidden)
}

func (h *Handler) getView(w http.ResponseWriter, r *http.Request) {
	kind := models.EntityKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		h.write(w, r, errorResponse{Error: ErrUnknownKind.Error()}, http.StatusNotFound)
		return
	}

	snapshot, ok := h.view.View(kind)
	if !ok {
		h.write(w, r, errorResponse{Error: ErrNoView.Error()}, http.StatusNotFound)
		return
	}
	h.write(w, r, snapshot, http.StatusOK)
}

func (h *Handler) getForecasts(w http.ResponseWriter, r *http.Request) {
	forecasts := h.view.Forecasts()
	if forecasts == nil {
		forecasts = []models.WatchedEntitySnapshot{}
	}
	h.write(w, r, forecasts, http.StatusOK)
}

func (h *Handler) getNotifications(w http.ResponseWriter, r *http.Request) {
	toasts := h.toasts.Active()
	if toasts == nil {
		toasts = []notify.Toast{}
	}
	h.write(w, r, toasts, http.StatusOK)
}

func (h *Handler) getSubscriptions(w http.ResponseWriter, r *http.Request) {
	handles := h.view.Subscriptions()
	resp := make([]subscriptionResponse, 0, len(handles))
	for _, s := range handles {
		resp = append(resp, subscriptionResponse{
			ID:           s.ID(),
			Topic:        s.Topic(),
			State:        s.State().String(),
			LastActivity: s.LastActivity(),
		})
	}
	h.write(w, r, resp, http.StatusOK)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, data any, status int) {
	if _, err := utils.WriteJSON(w, data, status); err != nil {
		logger.FromRequest(r).Err(err).Msg("error writing response")
	}
}
