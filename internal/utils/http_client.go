// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"github.com/go-resty/resty/v2"
)

// DefaultUserAgent is sent when NewHTTPClient gets an empty user agent.
const DefaultUserAgent = "go-live-watch"

// HTTPClient embeds *resty.Client so callers use resty's API directly.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent resty client that identifies itself
// with userAgent.
func NewHTTPClient(userAgent string) *HTTPClient {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPClient{Client: resty.New().SetHeader("User-Agent", userAgent)}
}
