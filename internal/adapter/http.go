// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-live-watch/internal/config"
	"github.com/MKhiriev/go-live-watch/internal/logger"
	"github.com/MKhiriev/go-live-watch/internal/utils"
	"github.com/MKhiriev/go-live-watch/models"
	"github.com/go-resty/resty/v2"
)

// REST endpoints of the backend.
const (
	liveSessionPath    = "/api/live-session"
	latestForecastPath = "/api/forecasts/latest"
	hasRolePath        = "/api/rpc/has-role"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	now    func() time.Time
	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying HTTP client with the resolved base URL and
// request timeout. The token from appCfg, if any, is attached to every
// request.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient(userAgent(appCfg.Version))
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	a := &httpServerAdapter{client: client, now: time.Now, logger: logger}
	a.SetToken(appCfg.Token)

	return a, nil
}

func userAgent(version string) string {
	if version == "" {
		return utils.DefaultUserAgent
	}
	return utils.DefaultUserAgent + "/" + version
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter].
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// FetchSnapshot implements [ServerAdapter]. It GETs the live session from
// GET /api/live-session or the most recent forecast from
// GET /api/forecasts/latest and converts the record into a snapshot.
func (h *httpServerAdapter) FetchSnapshot(ctx context.Context, kind models.EntityKind) (models.WatchedEntitySnapshot, error) {
	switch kind {
	case models.KindLiveSession:
		var live models.LiveSession
		if err := h.getJSON(ctx, liveSessionPath, &live); err != nil {
			return models.WatchedEntitySnapshot{}, fmt.Errorf("fetch live session: %w", err)
		}
		return live.Snapshot(h.now()), nil

	case models.KindForecast:
		var forecast models.Forecast
		if err := h.getJSON(ctx, latestForecastPath, &forecast); err != nil {
			return models.WatchedEntitySnapshot{}, fmt.Errorf("fetch latest forecast: %w", err)
		}
		if forecast.ID == "" {
			return models.WatchedEntitySnapshot{}, fmt.Errorf("%w: forecast without id", ErrTransport)
		}
		return models.WatchedEntitySnapshot{
			ID:        forecast.ID,
			Kind:      models.KindForecast,
			Fields:    forecast.Fields(),
			FetchedAt: h.now(),
		}, nil

	default:
		return models.WatchedEntitySnapshot{}, fmt.Errorf("%w: %w: %q", ErrTransport, ErrUnsupportedKind, kind)
	}
}

type hasRoleRequest struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

type hasRoleResponse struct {
	HasRole bool `json:"has_role"`
}

// HasRole implements [ServerAdapter]. It POSTs the user id and role to
// POST /api/rpc/has-role and returns the server's verdict.
func (h *httpServerAdapter) HasRole(ctx context.Context, userID int64, role string) (bool, error) {
	var result hasRoleResponse

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(hasRoleRequest{UserID: userID, Role: role}).
		SetResult(&result).
		ForceContentType("application/json").
		Post(hasRolePath)
	if err != nil {
		return false, fmt.Errorf("%w: has role request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return false, err
	}

	return result.HasRole, nil
}

func (h *httpServerAdapter) getJSON(ctx context.Context, path string, dst any) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Accept", "application/json").
		SetResult(dst).
		ForceContentType("application/json").
		Get(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	return nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
