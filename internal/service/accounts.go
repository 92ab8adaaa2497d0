// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inkwell-blog/inkwell/internal/auth"
	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/store"
)

// AccountService manages identities: registration, lookup, and credential
// verification.
type AccountService struct {
	db      *sql.DB
	queries *store.Queries
	hasher  auth.Hasher
}

// NewAccountService creates a new AccountService.
func NewAccountService(db *sql.DB, hasher auth.Hasher) *AccountService {
	return &AccountService{
		db:      db,
		queries: store.New(db),
		hasher:  hasher,
	}
}

// Register creates a new member account. The email uniqueness check runs
// before the name check, so a request that conflicts on both reports
// ErrDuplicateEmail. Check and insert run in one transaction so that two
// concurrent registrations with the same email cannot both pass the check.
func (s *AccountService) Register(ctx context.Context, email, name, rawPassword string) (model.User, error) {
	// Hash outside the transaction; argon2id is deliberately slow.
	passwordHash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	emailCount, err := qtx.CountUsersByEmail(ctx, email)
	if err != nil {
		return model.User{}, fmt.Errorf("checking email: %w", err)
	}
	if emailCount > 0 {
		return model.User{}, ErrDuplicateEmail
	}

	nameCount, err := qtx.CountUsersByName(ctx, name)
	if err != nil {
		return model.User{}, fmt.Errorf("checking name: %w", err)
	}
	if nameCount > 0 {
		return model.User{}, ErrDuplicateName
	}

	now := time.Now()
	user, err := qtx.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         model.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// The UNIQUE constraints back the in-transaction checks; translate
		// a constraint trip into the matching domain error rather than
		// leaking a storage error.
		return model.User{}, mapUserConstraintErr(err)
	}

	if err := tx.Commit(); err != nil {
		return model.User{}, fmt.Errorf("committing transaction: %w", err)
	}

	slog.Info("user registered", "id", user.ID, "email", user.Email, "name", user.Name)
	return user, nil
}

// mapUserConstraintErr converts a users-table UNIQUE violation into the
// corresponding domain error.
func mapUserConstraintErr(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "users.email"):
		return ErrDuplicateEmail
	case strings.Contains(msg, "users.name"):
		return ErrDuplicateName
	default:
		return fmt.Errorf("creating user: %w", err)
	}
}

// FindByEmail returns the account registered under the given email.
func (s *AccountService) FindByEmail(ctx context.Context, email string) (model.User, error) {
	user, err := s.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("finding user by email: %w", err)
	}
	return user, nil
}

// FindByID returns the account with the given id. Used on every request to
// resolve the session identity; the lookup is an indexed point read.
func (s *AccountService) FindByID(ctx context.Context, id int64) (model.User, error) {
	user, err := s.queries.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("finding user by id: %w", err)
	}
	return user, nil
}

// VerifyCredential reports whether rawPassword matches the user's stored
// credential. A malformed stored hash counts as a mismatch.
func (s *AccountService) VerifyCredential(user model.User, rawPassword string) bool {
	valid, err := s.hasher.Verify(rawPassword, user.PasswordHash)
	if err != nil {
		slog.Error("credential verification error", "error", err, "user_id", user.ID)
		return false
	}
	return valid
}

// Authenticate resolves an email/password pair to an account. Returns
// ErrNotFound when no account exists under the email and ErrInvalidCredential
// when the password does not match; callers choose how much of that
// distinction to reveal. On success the last-login timestamp is recorded and
// the credential is re-hashed if its parameters are stale.
func (s *AccountService) Authenticate(ctx context.Context, email, rawPassword string) (model.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}

	if !s.VerifyCredential(user, rawPassword) {
		return model.User{}, ErrInvalidCredential
	}

	// Re-hash if the stored credential uses stale parameters.
	if rehasher, ok := s.hasher.(interface{ NeedsRehash(string) bool }); ok && rehasher.NeedsRehash(user.PasswordHash) {
		if newHash, err := s.hasher.Hash(rawPassword); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				slog.Info("password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	if err := s.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: time.Now(), Valid: true},
		ID:          user.ID,
	}); err != nil {
		// Don't block login on this error
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	}

	return user, nil
}
