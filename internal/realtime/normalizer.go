// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-live-watch/internal/logger"
	"github.com/MKhiriev/go-live-watch/models"
	"github.com/fxamacker/cbor/v2"
)

const componentNormalizer = "normalizer"

var errOutOfScope = errors.New("payload out of scope")

// Normalizer converts raw push payloads and fetched snapshots into
// ChangeRecords. Invalid input yields nil and is reported, never returned.
type Normalizer struct {
	ids      IDGenerator
	reporter ErrorReporter
	logger   *logger.Logger
	now      func() time.Time
}

// NewNormalizer creates a Normalizer. A nil reporter discards reports.
func NewNormalizer(ids IDGenerator, reporter ErrorReporter, log *logger.Logger) *Normalizer {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Normalizer{
		ids:      ids,
		reporter: reporter,
		logger:   log.Component(componentNormalizer),
		now:      time.Now,
	}
}

// envelope is the codec-independent form of one change-feed event.
type envelope struct {
	table      string
	eventType  string
	record     []byte
	oldRecord  []byte
	commitTime *time.Time
	unmarshal  func([]byte, any) error
}

type jsonEnvelope struct {
	Table           string          `json:"table"`
	Type            string          `json:"type"`
	Record          json.RawMessage `json:"record"`
	OldRecord       json.RawMessage `json:"old_record"`
	CommitTimestamp *time.Time      `json:"commit_timestamp"`
}

type cborEnvelope struct {
	Table           string          `cbor:"table"`
	Type            string          `cbor:"type"`
	Record          cbor.RawMessage `cbor:"record"`
	OldRecord       cbor.RawMessage `cbor:"old_record"`
	CommitTimestamp *time.Time      `cbor:"commit_timestamp"`
}

// Normalize converts one change-feed event. Events for tables outside the
// watched kinds, or for a table other than the payload's topic, are dropped.
func (n *Normalizer) Normalize(raw models.TransportPayload) *models.ChangeRecord {
	rec, err := n.normalize(raw)
	if err != nil {
		if errors.Is(err, errOutOfScope) {
			n.logger.Debug().Str("topic", raw.Topic).Err(err).Msg("change event dropped")
		} else {
			n.reporter.Report(componentNormalizer, err)
		}
		return nil
	}
	return rec
}

// NormalizeSnapshot converts a fetched snapshot into an updated record.
func (n *Normalizer) NormalizeSnapshot(s models.WatchedEntitySnapshot) *models.ChangeRecord {
	if !s.Kind.Valid() {
		n.reporter.Report(componentNormalizer, fmt.Errorf("%w: unknown entity kind %q", ErrMalformedPayload, s.Kind))
		return nil
	}
	if s.Fields == nil {
		n.reporter.Report(componentNormalizer, fmt.Errorf("%w: %s snapshot has no fields", ErrMalformedPayload, s.Kind))
		return nil
	}

	observed := s.FetchedAt
	if observed.IsZero() {
		observed = n.now()
	}
	rec := models.NewChangeRecord(n.ids.Generate(), s.Kind, s.ID, models.ChangeUpdated, s.Fields, s.Version, models.SourcePoll, observed)
	return &rec
}

func (n *Normalizer) normalize(raw models.TransportPayload) (*models.ChangeRecord, error) {
	if len(raw.Body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}

	kind, ok := kindFromTable(env.table)
	if !ok {
		return nil, fmt.Errorf("%w: table %q", errOutOfScope, env.table)
	}
	if raw.Topic != "" && raw.Topic != kind.String() {
		return nil, fmt.Errorf("%w: table %q on topic %q", errOutOfScope, env.table, raw.Topic)
	}

	change, err := changeKindFromEvent(env.eventType)
	if err != nil {
		return nil, err
	}

	body := env.record
	if change == models.ChangeDeleted {
		body = env.oldRecord
		if isNullRecord(body) {
			body = env.record
		}
	}

	var (
		entityID string
		payload  map[string]any
		version  int64
	)
	switch kind {
	case models.KindLiveSession:
		entityID, payload, version, err = decodeLiveSession(env, body, change)
	case models.KindForecast:
		entityID, payload, err = decodeForecast(env, body, change)
	}
	if err != nil {
		return nil, err
	}

	observed := raw.ReceivedAt
	if env.commitTime != nil && !env.commitTime.IsZero() {
		observed = *env.commitTime
	}
	if observed.IsZero() {
		observed = n.now()
	}

	rec := models.NewChangeRecord(n.ids.Generate(), kind, entityID, change, payload, version, models.SourcePush, observed)
	return &rec, nil
}

func decodeEnvelope(raw models.TransportPayload) (envelope, error) {
	if isCBOR(raw.ContentType) {
		var e cborEnvelope
		if err := cbor.Unmarshal(raw.Body, &e); err != nil {
			return envelope{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
		return envelope{
			table:      e.Table,
			eventType:  e.Type,
			record:     e.Record,
			oldRecord:  e.OldRecord,
			commitTime: e.CommitTimestamp,
			unmarshal:  cbor.Unmarshal,
		}, nil
	}

	var e jsonEnvelope
	if err := json.Unmarshal(raw.Body, &e); err != nil {
		return envelope{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return envelope{
		table:      e.Table,
		eventType:  e.Type,
		record:     e.Record,
		oldRecord:  e.OldRecord,
		commitTime: e.CommitTimestamp,
		unmarshal:  json.Unmarshal,
	}, nil
}

func decodeLiveSession(env envelope, body []byte, change models.ChangeKind) (string, map[string]any, int64, error) {
	if isNullRecord(body) {
		if change == models.ChangeDeleted {
			return "", nil, 0, nil
		}
		return "", nil, 0, fmt.Errorf("%w: %s event without record", ErrMalformedPayload, models.KindLiveSession)
	}

	var s models.LiveSession
	if err := env.unmarshal(body, &s); err != nil {
		return "", nil, 0, fmt.Errorf("%w: %s record: %w", ErrMalformedPayload, models.KindLiveSession, err)
	}
	return s.ID, s.Fields(), s.Version, nil
}

func decodeForecast(env envelope, body []byte, change models.ChangeKind) (string, map[string]any, error) {
	if isNullRecord(body) {
		return "", nil, fmt.Errorf("%w: %s event without record", ErrMalformedPayload, models.KindForecast)
	}

	var f models.Forecast
	if err := env.unmarshal(body, &f); err != nil {
		return "", nil, fmt.Errorf("%w: %s record: %w", ErrMalformedPayload, models.KindForecast, err)
	}
	if f.ID == "" {
		return "", nil, fmt.Errorf("%w: %s record without id", ErrMalformedPayload, models.KindForecast)
	}
	// delete events may carry only the primary key
	if change != models.ChangeDeleted && !f.Bias.Valid() {
		return "", nil, fmt.Errorf("%w: %s %s has bias %q", ErrMalformedPayload, models.KindForecast, f.ID, f.Bias)
	}
	return f.ID, f.Fields(), nil
}

func kindFromTable(table string) (models.EntityKind, bool) {
	if i := strings.LastIndexByte(table, '.'); i >= 0 {
		table = table[i+1:]
	}
	switch strings.ToLower(table) {
	case "live_session", "live_sessions":
		return models.KindLiveSession, true
	case "forecast", "forecasts":
		return models.KindForecast, true
	default:
		return "", false
	}
}

func changeKindFromEvent(eventType string) (models.ChangeKind, error) {
	switch strings.ToUpper(eventType) {
	case models.EventInsert:
		return models.ChangeInserted, nil
	case models.EventUpdate:
		return models.ChangeUpdated, nil
	case models.EventDelete:
		return models.ChangeDeleted, nil
	default:
		return "", fmt.Errorf("%w: unknown event type %q", ErrMalformedPayload, eventType)
	}
}

func isCBOR(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), models.ContentTypeCBOR)
}

// isNullRecord reports whether a raw record is absent or an explicit null in
// either codec.
func isNullRecord(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	if len(b) == 1 && (b[0] == 0xf6 || b[0] == 0xf7) {
		return true
	}
	return string(b) == "null"
}
