// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwell-blog/inkwell/internal/auth"
	"github.com/inkwell-blog/inkwell/internal/model"
)

// AdminParams holds the credentials for provisioning the administrator.
type AdminParams struct {
	Email    string
	Name     string
	Password string
}

// EnsureAdmin provisions the single administrator account on first startup.
// The admin role is assigned here and nowhere else; if an admin already
// exists the call is a no-op. When a member has already registered under the
// configured email, that account is promoted instead of created.
func EnsureAdmin(ctx context.Context, db *sql.DB, hasher auth.Hasher, params AdminParams) error {
	queries := New(db)

	admin, err := queries.GetAdminUser(ctx)
	if err == nil {
		slog.Info("admin user already provisioned", "id", admin.ID, "email", admin.Email)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	existing, err := queries.GetUserByEmail(ctx, params.Email)
	if err == nil {
		if err := queries.UpdateUserRole(ctx, UpdateUserRoleParams{
			Role:      model.RoleAdmin,
			UpdatedAt: time.Now(),
			ID:        existing.ID,
		}); err != nil {
			return fmt.Errorf("promoting admin user: %w", err)
		}
		slog.Info("promoted existing account to administrator",
			"id", existing.ID,
			"email", existing.Email,
		)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking admin email: %w", err)
	}

	passwordHash, err := hasher.Hash(params.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created administrator account",
		"id", user.ID,
		"email", user.Email,
		"name", user.Name,
	)

	return nil
}
