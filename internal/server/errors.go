// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	ErrNoAddress = errors.New("status server address is not configured")
	ErrListen    = errors.New("status server listen failed")
)
