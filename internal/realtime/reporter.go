// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import "github.com/MKhiriev/go-live-watch/internal/logger"

type logReporter struct {
	logger *logger.Logger
}

// NewLogReporter returns an ErrorReporter that writes every report as a
// warning through log.
func NewLogReporter(log *logger.Logger) ErrorReporter {
	if log == nil {
		log = logger.Nop()
	}
	return &logReporter{logger: log}
}

func (r *logReporter) Report(component string, err error) {
	if err == nil {
		return
	}
	r.logger.Warn().Str("component", component).Err(err).Msg("realtime error reported")
}

type nopReporter struct{}

func (nopReporter) Report(string, error) {}
