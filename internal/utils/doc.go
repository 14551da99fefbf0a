// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils holds small helpers shared by the client: request-scoped
// user ids, JSON responses, bearer token parsing, the resty client and
// uuid v7 generation.
package utils
