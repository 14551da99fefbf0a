// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-live-watch/internal/notify"
	"github.com/MKhiriev/go-live-watch/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const statusTimeout = 2 * time.Second

var errNoStreamURL = errors.New("no stream url to copy")

type subscriptionRow struct {
	topic string
	state models.SubscriptionState
}

type dashboardModel struct {
	source  Source
	toasts  ToastSource
	refresh time.Duration
	copy    func(string) error

	running   bool
	session   models.WatchedEntitySnapshot
	hasSess   bool
	forecasts []models.WatchedEntitySnapshot
	subs      []subscriptionRow
	active    []notify.Toast

	idx      int
	spinner  spinner.Model
	status   string
	quitting bool
}

func newDashboardModel(source Source, toasts ToastSource, refresh time.Duration, copyFn func(string) error) dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	m := dashboardModel{source: source, toasts: toasts, refresh: refresh, copy: copyFn, spinner: s}
	return m.load()
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tick())
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.up):
			if m.idx > 0 {
				m.idx--
			}
		case key.Matches(msg, keys.down):
			if m.idx < len(m.forecasts)-1 {
				m.idx++
			}
		case key.Matches(msg, keys.refresh):
			return m.load(), nil
		case key.Matches(msg, keys.copy):
			return m, m.cmdCopyStreamURL()
		}
		return m, nil

	case refreshMsg:
		return m.load(), m.tick()

	case copiedMsg:
		if msg.err != nil {
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = "Stream URL copied"
		}
		return m, tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} })

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// load copies the current view out of the sources so View never reads
// shared state.
func (m dashboardModel) load() dashboardModel {
	m.running = m.source.Running()
	m.session, m.hasSess = m.source.View(models.KindLiveSession)
	m.forecasts = m.source.Forecasts()
	m.active = m.toasts.Active()

	m.subs = m.subs[:0:0]
	for _, h := range m.source.Subscriptions() {
		m.subs = append(m.subs, subscriptionRow{topic: h.Topic(), state: h.State()})
	}

	if m.idx >= len(m.forecasts) {
		m.idx = max(len(m.forecasts)-1, 0)
	}
	return m
}

func (m dashboardModel) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m dashboardModel) cmdCopyStreamURL() tea.Cmd {
	url := stringField(m.session.Fields, models.FieldStreamURL)
	copyFn := m.copy
	return func() tea.Msg {
		if !m.hasSess || url == "" {
			return copiedMsg{err: errNoStreamURL}
		}
		if err := copyFn(url); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}
