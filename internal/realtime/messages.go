// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-live-watch/models"
)

const DefaultNotificationDuration = 5 * time.Second

// Notification titles.
const (
	TitleOffline      = "Live session is offline"
	TitleLive         = "We are live!"
	TitleEnded        = "Live session ended"
	TitleNewForecast  = "New forecast"
	defaultLiveDetail = "The live session has started"
	offlineDetail     = "There is no live session right now"
)

// Composer builds user-facing notifications from change records. The same
// record payload always yields the same notification.
type Composer struct {
	duration time.Duration
}

// NewComposer creates a Composer whose notifications stay on screen for
// duration. A non-positive duration falls back to DefaultNotificationDuration.
func NewComposer(duration time.Duration) Composer {
	if duration <= 0 {
		duration = DefaultNotificationDuration
	}
	return Composer{duration: duration}
}

// Compose returns the notification for rec, or false when the change is not
// shown to the user.
func (c Composer) Compose(rec models.ChangeRecord) (models.Notification, bool) {
	if rec.ChangeKind == models.ChangeDeleted {
		return models.Notification{}, false
	}

	switch rec.EntityKind {
	case models.KindLiveSession:
		return c.liveSession(rec.Payload), true
	case models.KindForecast:
		return c.forecast(rec.Payload), true
	default:
		return models.Notification{}, false
	}
}

func (c Composer) liveSession(p map[string]any) models.Notification {
	if isLive, _ := p[models.FieldIsLive].(bool); isLive {
		detail := stringField(p, models.FieldTitle)
		if detail == "" {
			detail = defaultLiveDetail
		}
		return models.Notification{Title: TitleLive, Description: detail, Duration: c.duration}
	}

	if ended := stringField(p, models.FieldEndedAt); ended != "" {
		return models.Notification{Title: TitleEnded, Description: "Ended at " + formatTimestamp(ended), Duration: c.duration}
	}
	return models.Notification{Title: TitleOffline, Description: offlineDetail, Duration: c.duration}
}

func (c Composer) forecast(p map[string]any) models.Notification {
	title := TitleNewForecast
	if symbol := stringField(p, models.FieldSymbol); symbol != "" {
		title = fmt.Sprintf("%s: %s", TitleNewForecast, strings.ToUpper(symbol))
	}

	detail := "Bias: " + stringField(p, models.FieldBias)
	if msg := stringField(p, models.FieldMessage); msg != "" {
		detail += ". " + msg
	}
	return models.Notification{Title: title, Description: detail, Duration: c.duration}
}

func stringField(p map[string]any, name string) string {
	s, _ := p[name].(string)
	return strings.TrimSpace(s)
}

// formatTimestamp renders an RFC 3339 field as "2006-01-02 15:04 UTC", or
// returns it unchanged when it does not parse.
func formatTimestamp(s string) string {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return s
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}
