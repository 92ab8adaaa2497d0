// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the business logic layer: account registration
// and authentication, post and comment management, and audit event logging.
// Uniqueness violations and missing rows surface as the sentinel errors
// below, never as raw storage errors.
package service

import "errors"

// Domain errors. All are recoverable: handlers map them to flash messages,
// redirects, or 4xx responses. Anything else bubbling out of this package is
// a storage failure and maps to a 500.
var (
	// ErrDuplicateEmail is returned by Register when the email is taken.
	// It takes precedence over ErrDuplicateName.
	ErrDuplicateEmail = errors.New("email is already registered")

	// ErrDuplicateName is returned by Register when the display name is taken.
	ErrDuplicateName = errors.New("name is already taken")

	// ErrDuplicateTitle is returned when a post title is already used.
	ErrDuplicateTitle = errors.New("title is already used")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredential is returned by Authenticate when the password
	// does not match.
	ErrInvalidCredential = errors.New("invalid credential")
)
