package render

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/inkwell-blog/inkwell/internal/model"
)

func testTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<html><body>{{template "content" .}}</body></html>{{end}}`),
		},
		"pages/index.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}Index: {{.Title}}{{end}}`),
		},
		"auth/login.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}Login{{end}}`),
		},
	}
}

func TestNewParsesTemplates(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS(), IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, name := range []string{"index", "auth/login"} {
		if _, ok := r.templates[name]; !ok {
			t.Errorf("template %q not parsed", name)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS(), IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := r.Render(nil, nil, "nope", TemplateData{}); err == nil {
		t.Error("Render should fail for unknown template")
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS(), IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		contains string
		excludes string
	}{
		{"emphasis survives", "some *emphasis* here", "<em>emphasis</em>", ""},
		{"script stripped", `hello <script>alert("x")</script>`, "hello", "<script>"},
		{"link survives", "[site](https://example.com)", `href="https://example.com"`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(r.renderMarkdown(tt.input))
			if tt.contains != "" && !strings.Contains(got, tt.contains) {
				t.Errorf("renderMarkdown(%q) = %q, want to contain %q", tt.input, got, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(got, tt.excludes) {
				t.Errorf("renderMarkdown(%q) = %q, must not contain %q", tt.input, got, tt.excludes)
			}
		})
	}
}

func TestGravatarURL(t *testing.T) {
	// Hash must be of the trimmed, lowercased address
	a := GravatarURL("Reader@Example.COM ", 48)
	b := GravatarURL("reader@example.com", 48)
	if a != b {
		t.Errorf("GravatarURL not normalized: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "https://www.gravatar.com/avatar/") {
		t.Errorf("unexpected URL: %q", a)
	}
	if !strings.Contains(a, "s=48") {
		t.Errorf("size missing from URL: %q", a)
	}
}

func TestFormatDateFunc(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS(), IsDev: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	fn, ok := r.templateFuncs()["formatDate"].(func(time.Time) string)
	if !ok {
		t.Fatal("formatDate func missing")
	}

	got := fn(time.Date(2025, time.August, 9, 0, 0, 0, 0, time.UTC))
	if got != "August 9, 2025" {
		t.Errorf("formatDate = %q, want %q", got, "August 9, 2025")
	}
	if model.PostDateLayout != "January 2, 2006" {
		t.Errorf("PostDateLayout = %q", model.PostDateLayout)
	}
}
