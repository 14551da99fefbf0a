// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package auth holds the route guard that gates the view surfaces behind a
// remote role check.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-live-watch/internal/logger"
	"github.com/MKhiriev/go-live-watch/internal/utils"
)

var (
	ErrNoUser    = errors.New("no authenticated user")
	ErrForbidden = errors.New("user lacks the required role")
	ErrRoleCheck = errors.New("role check failed")
)

// DefaultRedirect is where denied requests are sent.
const DefaultRedirect = "/api/access-denied"

// RoleChecker is the remote authorization call. adapter.ServerAdapter
// satisfies it.
type RoleChecker interface {
	HasRole(ctx context.Context, userID int64, role string) (bool, error)
}

// Decision is the outcome of a guard check.
type Decision int

const (
	Allow Decision = iota
	Redirect
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "redirect"
}

// Guard decides whether a user may see a guarded surface. It blocks until the
// role check resolves and redirects on a negative answer or on any error.
type Guard struct {
	checker    RoleChecker
	role       string
	redirectTo string
	logger     *logger.Logger
}

// NewGuard creates a guard requiring role. An empty role allows everyone
// without calling checker.
func NewGuard(checker RoleChecker, role, redirectTo string, log *logger.Logger) *Guard {
	if redirectTo == "" {
		redirectTo = DefaultRedirect
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Guard{checker: checker, role: role, redirectTo: redirectTo, logger: log.Component("guard")}
}

// RedirectTo returns the path denied requests are sent to.
func (g *Guard) RedirectTo() string { return g.redirectTo }

// Role returns the required role.
func (g *Guard) Role() string { return g.role }

// Check resolves the decision for userID.
func (g *Guard) Check(ctx context.Context, userID int64) (Decision, error) {
	if g.role == "" {
		return Allow, nil
	}
	if userID <= 0 {
		return Redirect, ErrNoUser
	}

	ok, err := g.checker.HasRole(ctx, userID, g.role)
	if err != nil {
		g.logger.Warn().Int64("user_id", userID).Str("role", g.role).Err(err).Msg("role check failed")
		return Redirect, fmt.Errorf("%w: %w", ErrRoleCheck, err)
	}
	if !ok {
		g.logger.Info().Int64("user_id", userID).Str("role", g.role).Msg("access denied")
		return Redirect, ErrForbidden
	}
	return Allow, nil
}

// CheckToken reads the user id from a raw JWT and checks it.
func (g *Guard) CheckToken(ctx context.Context, token string) (int64, Decision, error) {
	if g.role == "" {
		return 0, Allow, nil
	}
	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return 0, Redirect, fmt.Errorf("%w: %w", ErrNoUser, err)
	}
	d, err := g.Check(ctx, userID)
	return userID, d, err
}
