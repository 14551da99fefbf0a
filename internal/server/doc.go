// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the local status HTTP server that exposes the
// synchronized view, and shuts it down gracefully.
package server
