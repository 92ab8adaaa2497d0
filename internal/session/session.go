// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the scs session manager and provides the
// login/logout/resolve operations that tie a session token to exactly one
// account id. No other state is kept in the session.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// KeyUserID is the session key holding the authenticated account id.
const KeyUserID = "user_id"

// Config holds session manager configuration.
type Config struct {
	// Lifetime is the idle timeout for every session.
	Lifetime time.Duration
	// RememberMeLifetime is the absolute cap on session age, reached only by
	// sessions whose cookie was made persistent via remember-me.
	RememberMeLifetime time.Duration
	// IsDev disables the Secure cookie attribute for local development.
	IsDev bool
}

// Manager wraps scs.SessionManager with the account binding operations.
type Manager struct {
	*scs.SessionManager
}

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, cfg Config) *Manager {
	sm := scs.New()

	sm.Store = sqlite3store.New(db)

	sm.Lifetime = cfg.RememberMeLifetime
	sm.IdleTimeout = cfg.Lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !cfg.IsDev // Secure cookies in production only
	// Session cookies are browser-session-scoped by default; RememberMe
	// flips persistence per session at login time.
	sm.Cookie.Persist = false

	if !cfg.IsDev {
		sm.Cookie.Name = "__Host-session"
		sm.Cookie.Path = "/"
	}

	return &Manager{SessionManager: sm}
}

// Login binds the current session to the given account id. The token is
// renewed first so a pre-login token never carries an identity (session
// fixation defence). With rememberMe the cookie persists across browser
// restarts up to RememberMeLifetime; without it the cookie dies with the
// browser session.
func (m *Manager) Login(ctx context.Context, userID int64, rememberMe bool) error {
	if err := m.RenewToken(ctx); err != nil {
		return err
	}
	m.Put(ctx, KeyUserID, userID)
	m.RememberMe(ctx, rememberMe)
	return nil
}

// Logout destroys the current session. Subsequent requests with the old
// token resolve to anonymous.
func (m *Manager) Logout(ctx context.Context) error {
	return m.Destroy(ctx)
}

// UserID returns the account id bound to the current session, or 0 for an
// anonymous session. Resolution reads only the session data for this token;
// concurrent requests with the same token do not interfere.
func (m *Manager) UserID(ctx context.Context) int64 {
	return m.GetInt64(ctx, KeyUserID)
}
