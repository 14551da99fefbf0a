// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package notify

import "github.com/charmbracelet/lipgloss"

var (
	toastStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	titleStyle = lipgloss.NewStyle().Bold(true)
	bodyStyle  = lipgloss.NewStyle()
	metaStyle  = lipgloss.NewStyle().Faint(true)
)
