// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

type refreshMsg struct{}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
