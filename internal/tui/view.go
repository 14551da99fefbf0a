// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-live-watch/models"
)

const uiDivider = "──────────────────────────────────────────────────────"

func (m dashboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	header := titleStyle.Render("go-live-watch")
	if m.running {
		header += "  " + m.spinner.View()
	} else {
		header += "  " + offlineStyle.Render("stopped")
	}
	b.WriteString(header + "\n" + uiDivider + "\n\n")

	b.WriteString(sectionStyle.Render("Live session") + "\n")
	b.WriteString(m.sessionView() + "\n")

	b.WriteString(sectionStyle.Render("Forecasts") + "\n")
	b.WriteString(m.forecastsView() + "\n")

	b.WriteString(sectionStyle.Render("Subscriptions") + "\n")
	b.WriteString(m.subscriptionsView() + "\n")

	for _, t := range m.active {
		b.WriteString(toastStyle.Render(titleStyle.Render(t.Title)+"\n"+t.Description) + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	b.WriteString("\n" + uiDivider + "\n")
	b.WriteString(helpStyle.Render("j/k move  r refresh  c copy stream url  q quit"))

	return appStyle.Render(b.String())
}

func (m dashboardModel) sessionView() string {
	if !m.hasSess {
		return "  waiting for first sync...\n"
	}

	f := m.session.Fields
	var b strings.Builder
	if live, _ := f[models.FieldIsLive].(bool); live {
		b.WriteString("  " + liveStyle.Render("● LIVE") + "  " + valueOrDash(stringField(f, models.FieldTitle)) + "\n")
		b.WriteString("  stream:  " + valueOrDash(stringField(f, models.FieldStreamURL)) + "\n")
		b.WriteString("  started: " + valueOrDash(stringField(f, models.FieldStartedAt)) + "\n")
	} else {
		b.WriteString("  " + offlineStyle.Render("○ offline") + "\n")
		if ended := stringField(f, models.FieldEndedAt); ended != "" {
			b.WriteString("  ended:   " + ended + "\n")
		}
	}
	return b.String()
}

func (m dashboardModel) forecastsView() string {
	if len(m.forecasts) == 0 {
		return "  no forecasts yet\n"
	}

	var b strings.Builder
	for i, fc := range m.forecasts {
		cursor := "  "
		if i == m.idx {
			cursor = "> "
		}
		b.WriteString(fmt.Sprintf("%s%-8s %-8s %s\n", cursor,
			strings.ToUpper(valueOrDash(stringField(fc.Fields, models.FieldSymbol))),
			valueOrDash(stringField(fc.Fields, models.FieldBias)),
			fitText(stringField(fc.Fields, models.FieldMessage), 48)))
	}
	return b.String()
}

func (m dashboardModel) subscriptionsView() string {
	if len(m.subs) == 0 {
		return "  push channel disabled\n"
	}

	var b strings.Builder
	for _, s := range m.subs {
		state := s.state.String()
		if s.state == models.SubscriptionLost || s.state == models.SubscriptionReconnecting {
			state = lostStyle.Render(state)
		}
		b.WriteString(fmt.Sprintf("  %-14s %s\n", s.topic, state))
	}
	return b.String()
}

func stringField(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return strings.TrimSpace(s)
}

func valueOrDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func fitText(v string, limit int) string {
	r := []rune(v)
	if limit <= 0 || len(r) <= limit {
		return v
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}
