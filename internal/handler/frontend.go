// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/inkwell-blog/inkwell/internal/middleware"
	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/policy"
	"github.com/inkwell-blog/inkwell/internal/render"
	"github.com/inkwell-blog/inkwell/internal/service"
)

// FrontendHandler serves the public pages: the post index, post detail pages
// with their comments, and the static about/contact pages.
type FrontendHandler struct {
	content  *service.ContentService
	renderer *render.Renderer
	events   *service.EventService
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer) *FrontendHandler {
	return &FrontendHandler{
		content:  service.NewContentService(db),
		renderer: renderer,
		events:   service.NewEventService(db),
	}
}

// homeData is the template payload for the index page.
type homeData struct {
	Posts     []model.Post
	CanAuthor bool
}

// Home renders the post index.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.content.ListPosts(r.Context())
	if err != nil {
		logAndInternalError(w, "listing posts", "error", err)
		return
	}

	user := middleware.GetUser(r)
	if err := h.renderer.Render(w, r, "index", render.TemplateData{
		Title: "Inkwell",
		User:  user,
		Data: homeData{
			Posts:     posts,
			CanAuthor: policy.CanAuthor(user),
		},
	}); err != nil {
		logAndInternalError(w, "rendering index", "error", err)
	}
}

// postData is the template payload for the post detail page.
type postData struct {
	Post          model.Post
	Comments      []model.CommentWithAuthor
	CanEditDelete bool
	CanComment    bool
}

// ShowPost renders a single post with its comment thread.
func (h *FrontendHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
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
		logAndInternalError(w, "loading post", "error", err, "post_id", id)
		return
	}

	comments, err := h.content.ListComments(r.Context(), id)
	if err != nil {
		logAndInternalError(w, "listing comments", "error", err, "post_id", id)
		return
	}

	user := middleware.GetUser(r)
	if err := h.renderer.Render(w, r, "post", render.TemplateData{
		Title: post.Title,
		User:  user,
		Data: postData{
			Post:          post,
			Comments:      comments,
			CanEditDelete: policy.CanEditOrDelete(user, post),
			CanComment:    policy.CanComment(user),
		},
	}); err != nil {
		logAndInternalError(w, "rendering post", "error", err)
	}
}

// AddComment handles the comment form on a post detail page. Only signed-in
// users may comment; anonymous visitors are sent to the login page.
func (h *FrontendHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	user := middleware.GetUser(r)
	if !policy.CanComment(user) {
		flashError(w, r, h.renderer, RouteLogin, "You need to login or register to comment.")
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, postURL(id)) {
		return
	}

	input := commentInputFromForm(r)
	if msg := validateInput(input); msg != "" {
		flashError(w, r, h.renderer, postURL(id), msg)
		return
	}

	comment, err := h.content.AddComment(r.Context(), id, user.ID, input.Text)
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		logAndInternalError(w, "adding comment", "error", err, "post_id", id)
		return
	}

	slog.Info("comment added", "comment_id", comment.ID, "post_id", id, "user_id", user.ID)
	uid := user.ID
	_ = h.events.LogEvent(r.Context(), model.EventLevelInfo, model.EventCategoryComment, "Comment added", &uid, clientIP(r), map[string]any{"post_id": fmt.Sprint(id)})

	http.Redirect(w, r, postURL(id), http.StatusSeeOther)
}

// About renders the about page.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "about", render.TemplateData{
		Title: "About Me",
		User:  middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "rendering about", "error", err)
	}
}

// Contact renders the contact page.
func (h *FrontendHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "contact", render.TemplateData{
		Title: "Contact Me",
		User:  middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "rendering contact", "error", err)
	}
}
