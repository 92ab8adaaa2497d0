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

	"github.com/inkwell-blog/inkwell/internal/middleware"
	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/render"
	"github.com/inkwell-blog/inkwell/internal/service"
)

// PostHandler handles post authoring, editing and deletion. All of its routes
// are admin-only; the router stacks RequireAdmin in front.
type PostHandler struct {
	content  *service.ContentService
	renderer *render.Renderer
	events   *service.EventService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(db *sql.DB, renderer *render.Renderer) *PostHandler {
	return &PostHandler{
		content:  service.NewContentService(db),
		renderer: renderer,
		events:   service.NewEventService(db),
	}
}

// postEditorData is the template payload for the post editor page, shared by
// the create and edit forms.
type postEditorData struct {
	Heading string
	Action  string
	Post    model.Post
}

// NewForm renders the post editor for a new post.
func (h *PostHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := postEditorData{
		Heading: "New Post",
		Action:  RouteNewPost,
	}

	if err := h.renderer.Render(w, r, "make_post", render.TemplateData{
		Title: "New Post",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering post editor", "error", err)
	}
}

// Create handles the new post form submission. The display date is stamped
// once at creation time and never changes afterwards.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteNewPost) {
		return
	}

	input := postInputFromForm(r)
	if msg := validateInput(input); msg != "" {
		flashError(w, r, h.renderer, RouteNewPost, msg)
		return
	}

	date := time.Now().Format(model.PostDateLayout)
	post, err := h.content.CreatePost(r.Context(), service.PostInput{
		Title:    input.Title,
		Subtitle: input.Subtitle,
		Body:     input.Body,
		ImageURL: input.ImageURL,
	}, middleware.GetUserID(r), date)
	switch {
	case errors.Is(err, service.ErrDuplicateTitle):
		flashError(w, r, h.renderer, RouteNewPost, "A post with that title already exists.")
		return
	case err != nil:
		logAndInternalError(w, "creating post", "error", err, "title", input.Title)
		return
	}

	uid := middleware.GetUserID(r)
	slog.Info("post created", "post_id", post.ID, "title", post.Title, "user_id", uid)
	_ = h.events.LogPostEvent(r.Context(), model.EventLevelInfo, "Post created", &uid, clientIP(r), map[string]any{"post_id": fmt.Sprint(post.ID), "title": post.Title})

	http.Redirect(w, r, postURL(post.ID), http.StatusSeeOther)
}

// EditForm renders the post editor pre-filled with an existing post.
func (h *PostHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	post, err := h.content.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logAndInternalError(w, "loading post for edit", "error", err, "post_id", id)
		return
	}

	data := postEditorData{
		Heading: "Edit Post",
		Action:  fmt.Sprintf("/edit-post/%d", post.ID),
		Post:    post,
	}

	if err := h.renderer.Render(w, r, "make_post", render.TemplateData{
		Title: "Edit Post",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering post editor", "error", err)
	}
}

// Update handles the edit form submission. Only title, subtitle, image URL and
// body change; the post keeps its original author and display date.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	editURL := fmt.Sprintf("/edit-post/%d", id)

	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	input := postInputFromForm(r)
	if msg := validateInput(input); msg != "" {
		flashError(w, r, h.renderer, editURL, msg)
		return
	}

	post, err := h.content.UpdatePost(r.Context(), id, service.PostInput{
		Title:    input.Title,
		Subtitle: input.Subtitle,
		Body:     input.Body,
		ImageURL: input.ImageURL,
	})
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.NotFound(w, r)
		return
	case errors.Is(err, service.ErrDuplicateTitle):
		flashError(w, r, h.renderer, editURL, "A post with that title already exists.")
		return
	case err != nil:
		logAndInternalError(w, "updating post", "error", err, "post_id", id)
		return
	}

	uid := middleware.GetUserID(r)
	slog.Info("post updated", "post_id", post.ID, "user_id", uid)
	_ = h.events.LogPostEvent(r.Context(), model.EventLevelInfo, "Post updated", &uid, clientIP(r), map[string]any{"post_id": fmt.Sprint(post.ID), "title": post.Title})

	http.Redirect(w, r, postURL(post.ID), http.StatusSeeOther)
}

// Delete removes a post and, through the cascade, its comments.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	err := h.content.DeletePost(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		logAndInternalError(w, "deleting post", "error", err, "post_id", id)
		return
	}

	uid := middleware.GetUserID(r)
	slog.Info("post deleted", "post_id", id, "user_id", uid)
	_ = h.events.LogPostEvent(r.Context(), model.EventLevelInfo, "Post deleted", &uid, clientIP(r), map[string]any{"post_id": fmt.Sprint(id)})

	flashSuccess(w, r, h.renderer, RouteRoot, "Post deleted.")
}

// postURL returns the detail page URL for a post.
func postURL(id int64) string {
	return fmt.Sprintf("/post/%d", id)
}
