// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/MKhiriev/go-live-watch/models"
	"github.com/charmbracelet/lipgloss"
)

const consoleQueueSize = 32

// Console renders notifications as boxed toasts on a terminal. Present
// enqueues and returns; a background goroutine does the writing. When the
// queue is full, or the console is closed, the notification is dropped.
type Console struct {
	w     io.Writer
	queue chan models.Notification
	now   func() time.Time

	// mu guards closed and the close of queue against concurrent sends.
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewConsole starts a console sink writing to w.
func NewConsole(w io.Writer) *Console {
	c := &Console{
		w:     w,
		queue: make(chan models.Notification, consoleQueueSize),
		now:   time.Now,
		done:  make(chan struct{}),
	}
	go c.loop()
	return c
}

func (c *Console) Present(n models.Notification) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.queue <- n:
	default:
	}
}

// Close flushes queued toasts and stops the writer goroutine. Later calls to
// Present are ignored.
func (c *Console) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.queue)
	}
	c.mu.Unlock()
	<-c.done
}

func (c *Console) loop() {
	defer close(c.done)
	for n := range c.queue {
		_, _ = fmt.Fprintln(c.w, Render(n, c.now()))
	}
}

// Render draws a toast for n shown at the given time.
func Render(n models.Notification, at time.Time) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(n.Title),
		bodyStyle.Render(n.Description),
		metaStyle.Render(fmt.Sprintf("%s · %s", at.Format(time.TimeOnly), n.Duration)),
	)
	return toastStyle.Render(body)
}
