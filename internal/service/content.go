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

	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/store"
)

// ContentService manages posts and their comments.
type ContentService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewContentService creates a new ContentService.
func NewContentService(db *sql.DB) *ContentService {
	return &ContentService{
		db:      db,
		queries: store.New(db),
	}
}

// PostInput holds the mutable fields of a post.
type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImageURL string
}

// CreatePost creates a post. Title uniqueness is checked and the row inserted
// in one transaction; a conflict reports ErrDuplicateTitle. The date string
// and author are fixed at creation and immutable afterwards.
func (s *ContentService) CreatePost(ctx context.Context, input PostInput, authorID int64, date string) (model.Post, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Post{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	count, err := qtx.CountPostsByTitle(ctx, input.Title)
	if err != nil {
		return model.Post{}, fmt.Errorf("checking title: %w", err)
	}
	if count > 0 {
		return model.Post{}, ErrDuplicateTitle
	}

	post, err := qtx.CreatePost(ctx, store.CreatePostParams{
		Title:    input.Title,
		Subtitle: input.Subtitle,
		Date:     date,
		Body:     input.Body,
		ImageURL: input.ImageURL,
		AuthorID: authorID,
	})
	if err != nil {
		return model.Post{}, mapPostConstraintErr(err)
	}

	if err := tx.Commit(); err != nil {
		return model.Post{}, fmt.Errorf("committing transaction: %w", err)
	}

	slog.Info("post created", "id", post.ID, "title", post.Title, "author_id", authorID)
	return post, nil
}

// UpdatePost replaces the mutable fields of a post. Author and date are never
// touched. Returns ErrNotFound for a missing post and ErrDuplicateTitle when
// the new title collides with another post.
func (s *ContentService) UpdatePost(ctx context.Context, id int64, input PostInput) (model.Post, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Post{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	current, err := qtx.GetPostByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("getting post: %w", err)
	}

	if input.Title != current.Title {
		count, err := qtx.CountPostsByTitleExcluding(ctx, store.CountPostsByTitleExcludingParams{
			Title: input.Title,
			ID:    id,
		})
		if err != nil {
			return model.Post{}, fmt.Errorf("checking title: %w", err)
		}
		if count > 0 {
			return model.Post{}, ErrDuplicateTitle
		}
	}

	post, err := qtx.UpdatePost(ctx, store.UpdatePostParams{
		Title:    input.Title,
		Subtitle: input.Subtitle,
		Body:     input.Body,
		ImageURL: input.ImageURL,
		ID:       id,
	})
	if err != nil {
		return model.Post{}, mapPostConstraintErr(err)
	}

	if err := tx.Commit(); err != nil {
		return model.Post{}, fmt.Errorf("committing transaction: %w", err)
	}

	slog.Info("post updated", "id", post.ID, "title", post.Title)
	return post, nil
}

// DeletePost removes a post and, through the schema's ON DELETE CASCADE, all
// of its comments in the same statement; no reader can observe orphaned
// comments. Returns ErrNotFound when the post does not exist.
func (s *ContentService) DeletePost(ctx context.Context, id int64) error {
	deleted, err := s.queries.DeletePost(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}

	slog.Info("post deleted", "id", id)
	return nil
}

// GetPost returns the post with the given id, or ErrNotFound.
func (s *ContentService) GetPost(ctx context.Context, id int64) (model.Post, error) {
	post, err := s.queries.GetPostByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("getting post: %w", err)
	}
	return post, nil
}

// ListPosts returns all posts, ordered by id.
func (s *ContentService) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts, err := s.queries.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// AddComment attaches a comment to a post. The post must exist (ErrNotFound
// otherwise); the author is not re-validated here because only authenticated
// identities reach this call.
func (s *ContentService) AddComment(ctx context.Context, postID, authorID int64, text string) (model.Comment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Comment{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	if _, err := qtx.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Comment{}, ErrNotFound
		}
		return model.Comment{}, fmt.Errorf("getting post: %w", err)
	}

	comment, err := qtx.CreateComment(ctx, store.CreateCommentParams{
		Text:     text,
		AuthorID: authorID,
		PostID:   postID,
	})
	if err != nil {
		return model.Comment{}, fmt.Errorf("creating comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Comment{}, fmt.Errorf("committing transaction: %w", err)
	}

	slog.Info("comment added", "id", comment.ID, "post_id", postID, "author_id", authorID)
	return comment, nil
}

// ListComments returns a post's comments with author display fields.
func (s *ContentService) ListComments(ctx context.Context, postID int64) ([]model.CommentWithAuthor, error) {
	comments, err := s.queries.ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	return comments, nil
}

// mapPostConstraintErr converts a posts-table UNIQUE violation into
// ErrDuplicateTitle.
func mapPostConstraintErr(err error) error {
	if strings.Contains(err.Error(), "posts.title") {
		return ErrDuplicateTitle
	}
	return fmt.Errorf("writing post: %w", err)
}
