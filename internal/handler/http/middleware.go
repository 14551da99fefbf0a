// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-live-watch/internal/auth"
	"github.com/MKhiriev/go-live-watch/internal/logger"
	"github.com/MKhiriev/go-live-watch/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const traceIDHeader = "X-Trace-ID"

func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
	})
}

func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(lw, r)

		logger.FromRequest(r).Info().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}

// auth reads the user id from the bearer token, resolves the role guard and
// only then lets the request through. A failed or negative check redirects.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		ctx := r.Context()

		var userID int64
		if h.guard.Role() != "" {
			header := r.Header.Get("Authorization")
			if header == "" {
				log.Err(ErrEmptyAuthorizationHeader).Send()
				http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
				return
			}
			token, err := utils.ParseBearerToken(header)
			if err != nil {
				log.Err(err).Send()
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			var decision auth.Decision
			userID, decision, err = h.guard.CheckToken(ctx, token)
			if decision != auth.Allow {
				log.Info().Err(err).Int64("user_id", userID).Msg("guard redirect")
				http.Redirect(w, r, h.guard.RedirectTo(), http.StatusSeeOther)
				return
			}
		}

		ctx = utils.WithUserID(ctx, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// responseWriter records the status and body size for the access log.
type responseWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}
