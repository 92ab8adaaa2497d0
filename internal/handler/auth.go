// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/inkwell-blog/inkwell/internal/auth"
	"github.com/inkwell-blog/inkwell/internal/middleware"
	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/render"
	"github.com/inkwell-blog/inkwell/internal/service"
	"github.com/inkwell-blog/inkwell/internal/session"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	accounts        *service.AccountService
	renderer        *render.Renderer
	sessions        *session.Manager
	events          *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, hasher auth.Hasher, renderer *render.Renderer, sm *session.Manager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		accounts:        service.NewAccountService(db, hasher),
		renderer:        renderer,
		sessions:        sm,
		events:          service.NewEventService(db),
		loginProtection: lp,
	}
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "auth/register", render.TemplateData{
		Title: "Register",
		User:  middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "rendering register page", "error", err)
	}
}

// Register handles the registration form submission. A successful
// registration signs the new user in immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteRegister) {
		return
	}

	input := registerInputFromForm(r)
	if msg := validateInput(input); msg != "" {
		flashError(w, r, h.renderer, RouteRegister, msg)
		return
	}

	user, err := h.accounts.Register(r.Context(), input.Email, input.Name, input.Password)
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		// Send existing users to the login page instead
		flashError(w, r, h.renderer, RouteLogin, "You've already signed up with that email, log in instead!")
		return
	case errors.Is(err, service.ErrDuplicateName):
		flashError(w, r, h.renderer, RouteRegister, "That name is already taken, please use another.")
		return
	case err != nil:
		logAndInternalError(w, "registration failed", "error", err, "email", input.Email)
		return
	}

	if err := h.sessions.Login(r.Context(), user.ID, false); err != nil {
		logAndInternalError(w, "session login error", "error", err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	uid := user.ID
	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "User registered", &uid, clientIP(r), map[string]any{"email": user.Email})

	flashSuccess(w, r, h.renderer, RouteRoot, "Welcome, "+user.Name+"!")
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: "Log In",
		User:  middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "rendering login page", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	input := loginInputFromForm(r)
	if msg := validateInput(input); msg != "" {
		flashError(w, r, h.renderer, RouteLogin, msg)
		return
	}

	// Check if account is locked
	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(input.Email); locked {
			_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login attempt on locked account", nil, clientIP(r), map[string]any{"email": input.Email})
			flashError(w, r, h.renderer, RouteLogin, "Too many failed attempts. Try again in "+formatDuration(remaining)+".")
			return
		}
	}

	user, err := h.accounts.Authenticate(r.Context(), input.Email, input.Password)
	switch {
	case errors.Is(err, service.ErrNotFound):
		slog.Debug("login attempt for non-existent user", "email", input.Email)
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed: user not found", nil, clientIP(r), map[string]any{"email": input.Email})
		h.recordFailureAndRedirect(w, r, input.Email, "That email does not exist, please try again.")
		return
	case errors.Is(err, service.ErrInvalidCredential):
		slog.Debug("invalid password attempt", "email", input.Email)
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed: invalid password", nil, clientIP(r), map[string]any{"email": input.Email})
		h.recordFailureAndRedirect(w, r, input.Email, "Password incorrect, please try again.")
		return
	case err != nil:
		logAndInternalError(w, "login failed", "error", err, "email", input.Email)
		return
	}

	// Clear failed attempts on successful login
	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(input.Email)
	}

	if err := h.sessions.Login(r.Context(), user.ID, input.Remember); err != nil {
		logAndInternalError(w, "session login error", "error", err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	uid := user.ID
	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged in", &uid, clientIP(r), map[string]any{"email": user.Email, "remember": fmt.Sprint(input.Remember)})

	flashSuccess(w, r, h.renderer, RouteRoot, "Welcome back, "+user.Name+"!")
}

// recordFailureAndRedirect records a failed login attempt and redirects to the
// login page with the given message, or a lockout message when the failure
// tripped the lockout threshold.
func (h *AuthHandler) recordFailureAndRedirect(w http.ResponseWriter, r *http.Request, email, message string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning, "Account locked due to failed attempts", nil, clientIP(r), map[string]any{"email": email, "duration": lockDuration.String()})
			flashError(w, r, h.renderer, RouteLogin, "Too many failed attempts. Try again in "+formatDuration(lockDuration)+".")
			return
		}
	}
	flashError(w, r, h.renderer, RouteLogin, message)
}

// Logout destroys the session and redirects to the homepage.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessions.UserID(r.Context())

	if userID > 0 {
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out", &userID, clientIP(r), nil)
	}

	if err := h.sessions.Logout(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID)

	flashAndRedirect(w, r, h.renderer, RouteRoot, "You have been logged out.", "info")
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
