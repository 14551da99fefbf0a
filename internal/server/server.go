// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"net/http"

	"github.com/MKhiriev/go-live-watch/internal/config"
	"github.com/MKhiriev/go-live-watch/internal/logger"
)

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

// NewServer creates the status server for handler. An empty listen address is
// rejected with ErrNoAddress.
func NewServer(handler http.Handler, cfg config.ClientServer, log *logger.Logger) (Server, error) {
	log.Info().Str("address", cfg.HTTPAddress).Msg("creating status server...")
	if cfg.HTTPAddress == "" {
		return nil, ErrNoAddress
	}

	return &server{
		httpServer: newHTTPServer(handler, cfg, log),
		logger:     log,
	}, nil
}

func (s *server) RunServer() error {
	s.logger.Info().Msg("Launching HTTP server")
	return s.httpServer.RunServer()
}

func (s *server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err == nil {
		s.logger.Info().Msg("server Shutdown gracefully")
	}
	return err
}

func (s *server) Addr() string {
	return s.httpServer.Addr()
}
