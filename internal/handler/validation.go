// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Password length bounds for registration.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 20
)

// formValidate is the shared validator instance for form input structs.
var formValidate = validator.New()

// RegisterInput holds the registration form fields.
type RegisterInput struct {
	Email           string `validate:"required,email"`
	Name            string `validate:"required,min=2,max=100"`
	Password        string `validate:"required,min=6,max=20"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// LoginInput holds the login form fields.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Remember bool
}

// PostFormInput holds the post editor form fields.
type PostFormInput struct {
	Title    string `validate:"required,max=250"`
	Subtitle string `validate:"required,max=250"`
	ImageURL string `validate:"required,url"`
	Body     string `validate:"required"`
}

// CommentInput holds the comment form fields.
type CommentInput struct {
	Text string `validate:"required,max=5000"`
}

func registerInputFromForm(r *http.Request) RegisterInput {
	return RegisterInput{
		Email:           strings.TrimSpace(r.FormValue("email")),
		Name:            strings.TrimSpace(r.FormValue("name")),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}
}

func loginInputFromForm(r *http.Request) LoginInput {
	return LoginInput{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		Remember: r.FormValue("remember") != "",
	}
}

func postInputFromForm(r *http.Request) PostFormInput {
	return PostFormInput{
		Title:    strings.TrimSpace(r.FormValue("title")),
		Subtitle: strings.TrimSpace(r.FormValue("subtitle")),
		ImageURL: strings.TrimSpace(r.FormValue("img_url")),
		Body:     strings.TrimSpace(r.FormValue("body")),
	}
}

func commentInputFromForm(r *http.Request) CommentInput {
	return CommentInput{
		Text: strings.TrimSpace(r.FormValue("comment")),
	}
}

// validateInput runs struct validation and returns a message suitable for a
// flash, or "" when the input is valid.
func validateInput(input any) string {
	err := formValidate.Struct(input)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid form data"
	}

	// Report the first failing field only; HTML forms are small enough that
	// one message at a time is fine.
	return fieldErrorMessage(verrs[0])
}

// fieldErrorMessage maps a validation error to a user-facing message.
func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		if fe.Tag() == "required" {
			return "Email is required"
		}
		return "That doesn't look like a valid email address"
	case "Name":
		if fe.Tag() == "required" {
			return "Name is required"
		}
		return "Name must be between 2 and 100 characters"
	case "Password":
		if fe.Tag() == "required" {
			return "Password is required"
		}
		return "Password must be between 6 and 20 characters"
	case "ConfirmPassword":
		return "Passwords do not match"
	case "Title":
		if fe.Tag() == "required" {
			return "Title is required"
		}
		return "Title is too long"
	case "Subtitle":
		if fe.Tag() == "required" {
			return "Subtitle is required"
		}
		return "Subtitle is too long"
	case "ImageURL":
		if fe.Tag() == "required" {
			return "Image URL is required"
		}
		return "Image URL must be a valid URL"
	case "Body":
		return "Body is required"
	case "Text":
		if fe.Tag() == "required" {
			return "Comment text is required"
		}
		return "Comment is too long"
	default:
		return "Invalid form data"
	}
}
