// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// PostDateLayout is the display format for post dates, e.g. "January 2, 2006".
// The date is a presentation string fixed at creation time and is never used
// for ordering.
const PostDateLayout = "January 2, 2006"

// Post represents a blog post. The body is admin-authored rich text and is
// rendered verbatim. Author and date are immutable after creation.
type Post struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Date     string `json:"date"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url"`
	AuthorID int64  `json:"author_id"`
}
