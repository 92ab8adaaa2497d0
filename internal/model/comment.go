// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Comment represents a reader comment on a post. Comments have no update or
// delete operations; they are removed only by the cascade when their post is
// deleted.
type Comment struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	AuthorID int64  `json:"author_id"`
	PostID   int64  `json:"post_id"`
}

// CommentWithAuthor joins a comment with its author's display fields for
// rendering. The email is used for the avatar URL only and is not exposed
// in JSON.
type CommentWithAuthor struct {
	Comment
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"-"`
}
