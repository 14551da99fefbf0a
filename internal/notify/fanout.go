// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package notify

import "github.com/MKhiriev/go-live-watch/models"

// Presenter is anything notifications can be handed to.
type Presenter interface {
	Present(n models.Notification)
}

// Fanout presents every notification to each sink in order.
type Fanout []Presenter

func (f Fanout) Present(n models.Notification) {
	for _, s := range f {
		if s != nil {
			s.Present(n)
		}
	}
}
