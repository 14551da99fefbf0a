// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package notify

import (
	"github.com/MKhiriev/go-live-watch/internal/logger"
	"github.com/MKhiriev/go-live-watch/models"
)

// Log writes every notification as an info line.
type Log struct {
	logger *logger.Logger
}

func NewLog(log *logger.Logger) *Log {
	return &Log{logger: log.Component("notify")}
}

func (l *Log) Present(n models.Notification) {
	l.logger.Info().
		Str("title", n.Title).
		Str("description", n.Description).
		Dur("duration", n.Duration).
		Msg("notification")
}
