// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package pubsub

import "errors"

var (
	ErrNoURL         = errors.New("broker url is required")
	ErrDial          = errors.New("broker dial failed")
	ErrTopology      = errors.New("broker topology declaration failed")
	ErrChannelClosed = errors.New("broker channel closed")
	ErrClosed        = errors.New("change feed is closed")
)
