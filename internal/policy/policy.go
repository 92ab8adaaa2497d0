// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package policy holds the authorization decision functions. Every function
// is pure: no I/O, no shared state, safe for concurrent use. Decisions are
// advisory; handlers enforce them by refusing the mutation and redirecting
// to login or a 403 response.
package policy

import "github.com/inkwell-blog/inkwell/internal/model"

// CanAuthor reports whether the identity may create posts: it must be
// present and hold the admin role.
func CanAuthor(user *model.User) bool {
	return user != nil && user.IsAdmin()
}

// CanEditOrDelete reports whether the identity may edit or delete the given
// post. Post ownership is deliberately not consulted: the administrator may
// edit or delete any post regardless of who authored it.
func CanEditOrDelete(user *model.User, post model.Post) bool {
	return CanAuthor(user)
}

// CanComment reports whether the identity may comment: any authenticated
// identity qualifies.
func CanComment(user *model.User) bool {
	return user != nil
}
