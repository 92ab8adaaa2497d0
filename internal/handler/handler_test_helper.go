package handler

import (
	"context"
	"database/sql"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/inkwell-blog/inkwell/internal/auth"
	"github.com/inkwell-blog/inkwell/internal/render"
	"github.com/inkwell-blog/inkwell/internal/session"
	"github.com/inkwell-blog/inkwell/internal/store"
	"github.com/inkwell-blog/inkwell/internal/testutil"
	"github.com/inkwell-blog/inkwell/web"
)

// Credentials used by the seeded admin account in tests.
const (
	testAdminEmail    = "admin@example.com"
	testAdminName     = "Site Owner"
	testAdminPassword = "owner-secret"
)

type testApp struct {
	db  *sql.DB
	srv *httptest.Server
}

// newTestApp builds the full route tree against a temp database and serves it
// over httptest. Login protection and CSRF are left out so tests can hammer
// the login form freely.
func newTestApp(t *testing.T) (*testApp, func()) {
	t.Helper()

	db, dbCleanup := testutil.TestDB(t)

	hasher := auth.NewArgon2Hasher()
	if err := store.EnsureAdmin(context.Background(), db, hasher, store.AdminParams{
		Email:    testAdminEmail,
		Name:     testAdminName,
		Password: testAdminPassword,
	}); err != nil {
		dbCleanup()
		t.Fatalf("EnsureAdmin: %v", err)
	}

	sm := session.New(db, session.Config{
		Lifetime:           time.Hour,
		RememberMeLifetime: 24 * time.Hour,
		IsDev:              true,
	})

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		dbCleanup()
		t.Fatalf("templates sub FS: %v", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		dbCleanup()
		t.Fatalf("render.New: %v", err)
	}

	router := Routes(RouterConfig{
		DB:       db,
		Hasher:   hasher,
		Renderer: renderer,
		Sessions: sm,
	})

	srv := httptest.NewServer(router)

	app := &testApp{db: db, srv: srv}
	return app, func() {
		srv.Close()
		dbCleanup()
	}
}

// client returns an HTTP client with its own cookie jar that does not follow
// redirects.
func (a *testApp) client(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// postForm issues a form POST and returns the response. The body is closed.
func (a *testApp) postForm(t *testing.T, c *http.Client, path string, form url.Values) *http.Response {
	t.Helper()

	resp, err := c.PostForm(a.srv.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	resp.Body.Close()
	return resp
}

// get issues a GET and returns the response with its body read into a string.
func (a *testApp) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()

	resp, err := c.Get(a.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading %s body: %v", path, err)
	}
	return resp, string(body)
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

// register signs up a new user and asserts the redirect target.
func (a *testApp) register(t *testing.T, c *http.Client, email, name, password, wantLocation string) {
	t.Helper()

	resp := a.postForm(t, c, RouteRegister, url.Values{
		"email":            {email},
		"name":             {name},
		"password":         {password},
		"confirm_password": {password},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("register status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != wantLocation {
		t.Fatalf("register Location = %q, want %q", loc, wantLocation)
	}
}

// login signs a user in and asserts the redirect target.
func (a *testApp) login(t *testing.T, c *http.Client, email, password, wantLocation string) {
	t.Helper()

	resp := a.postForm(t, c, RouteLogin, url.Values{
		"email":    {email},
		"password": {password},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != wantLocation {
		t.Fatalf("login Location = %q, want %q", loc, wantLocation)
	}
}

// loginAdmin signs in the seeded admin account.
func (a *testApp) loginAdmin(t *testing.T, c *http.Client) {
	t.Helper()
	a.login(t, c, testAdminEmail, testAdminPassword, RouteRoot)
}

// createPost creates a post as the given (already logged-in admin) client and
// returns the post detail path from the redirect.
func (a *testApp) createPost(t *testing.T, c *http.Client, title, subtitle string) string {
	t.Helper()

	resp := a.postForm(t, c, RouteNewPost, url.Values{
		"title":    {title},
		"subtitle": {subtitle},
		"img_url":  {"https://example.com/cover.jpg"},
		"body":     {"<p>Hello from " + title + "</p>"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("create post status = %d, want 303", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/post/") {
		t.Fatalf("create post Location = %q, want /post/...", loc)
	}
	return loc
}
