// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-blog/inkwell/internal/auth"
	"github.com/inkwell-blog/inkwell/internal/middleware"
	"github.com/inkwell-blog/inkwell/internal/render"
	"github.com/inkwell-blog/inkwell/internal/session"
)

// RouterConfig holds everything the blog routes need.
type RouterConfig struct {
	DB              *sql.DB
	Hasher          auth.Hasher
	Renderer        *render.Renderer
	Sessions        *session.Manager
	LoginProtection *middleware.LoginProtection

	// CSRF, when set, wraps every route. Left nil in tests.
	CSRF func(http.Handler) http.Handler
}

// Routes assembles the blog's route tree: public pages, auth pages and the
// admin-only post editor routes.
func Routes(cfg RouterConfig) chi.Router {
	authHandler := NewAuthHandler(cfg.DB, cfg.Hasher, cfg.Renderer, cfg.Sessions, cfg.LoginProtection)
	postHandler := NewPostHandler(cfg.DB, cfg.Renderer)
	frontendHandler := NewFrontendHandler(cfg.DB, cfg.Renderer)

	r := chi.NewRouter()

	r.Use(cfg.Sessions.LoadAndSave)
	if cfg.CSRF != nil {
		r.Use(cfg.CSRF)
	}
	r.Use(middleware.LoadUser(cfg.Sessions, cfg.DB))

	// Public pages
	r.Get(RouteRoot, frontendHandler.Home)
	r.Get(RouteAbout, frontendHandler.About)
	r.Get(RouteContact, frontendHandler.Contact)
	r.Get(RoutePost, frontendHandler.ShowPost)
	r.Post(RoutePost, frontendHandler.AddComment)

	// Auth pages
	r.Get(RouteRegister, authHandler.RegisterForm)
	r.Post(RouteRegister, authHandler.Register)
	r.Group(func(r chi.Router) {
		if cfg.LoginProtection != nil {
			r.Use(cfg.LoginProtection.Middleware())
		}
		r.Get(RouteLogin, authHandler.LoginForm)
		r.Post(RouteLogin, authHandler.Login)
	})
	r.Get(RouteLogout, authHandler.Logout)

	// Admin-only post management
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(cfg.Sessions))
		r.Use(middleware.RequireAdmin)
		r.Get(RouteNewPost, postHandler.NewForm)
		r.Post(RouteNewPost, postHandler.Create)
		r.Get(RouteEditPost, postHandler.EditForm)
		r.Post(RouteEditPost, postHandler.Update)
		r.Get(RouteDeletePost, postHandler.Delete)
	})

	return r
}
