package handler

import "testing"

func TestValidateRegisterInput(t *testing.T) {
	valid := RegisterInput{
		Email:           "alice@example.com",
		Name:            "Alice",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		wantOK bool
	}{
		{"valid", func(*RegisterInput) {}, true},
		{"missing email", func(in *RegisterInput) { in.Email = "" }, false},
		{"bad email", func(in *RegisterInput) { in.Email = "nope" }, false},
		{"short name", func(in *RegisterInput) { in.Name = "A" }, false},
		{"short password", func(in *RegisterInput) { in.Password = "abc"; in.ConfirmPassword = "abc" }, false},
		{"long password", func(in *RegisterInput) {
			in.Password = "abcdefghijklmnopqrstu" // 21 chars
			in.ConfirmPassword = in.Password
		}, false},
		{"mismatch", func(in *RegisterInput) { in.ConfirmPassword = "other" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			msg := validateInput(in)
			if ok := msg == ""; ok != tt.wantOK {
				t.Errorf("validateInput() = %q, want ok=%v", msg, tt.wantOK)
			}
		})
	}
}

func TestValidatePostInput(t *testing.T) {
	valid := PostFormInput{
		Title:    "First Light",
		Subtitle: "A beginning",
		ImageURL: "https://example.com/cover.jpg",
		Body:     "<p>hello</p>",
	}

	if msg := validateInput(valid); msg != "" {
		t.Errorf("valid input rejected: %q", msg)
	}

	bad := valid
	bad.ImageURL = "not a url"
	if msg := validateInput(bad); msg == "" {
		t.Error("invalid image URL accepted")
	}

	bad = valid
	bad.Title = ""
	if msg := validateInput(bad); msg != "Title is required" {
		t.Errorf("message = %q, want %q", msg, "Title is required")
	}
}

func TestValidateCommentInput(t *testing.T) {
	if msg := validateInput(CommentInput{Text: "hello"}); msg != "" {
		t.Errorf("valid comment rejected: %q", msg)
	}
	if msg := validateInput(CommentInput{}); msg == "" {
		t.Error("empty comment accepted")
	}
}
