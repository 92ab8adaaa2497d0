// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/inkwell-blog/inkwell/internal/model"
	"github.com/inkwell-blog/inkwell/internal/session"
	"github.com/inkwell-blog/inkwell/internal/store"
	"github.com/inkwell-blog/inkwell/internal/testutil"
)

func newTestSessionManager(t *testing.T) (*session.Manager, *sql.DB, func()) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	sm := session.New(db, session.Config{
		Lifetime:           time.Hour,
		RememberMeLifetime: 24 * time.Hour,
		IsDev:              true,
	})
	return sm, db, cleanup
}

func createUser(t *testing.T, db *sql.DB, email, name, role string) model.User {
	t.Helper()

	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		Name:         name,
		PasswordHash: "x",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

// newTestClient returns an HTTP client with a cookie jar that does not follow
// redirects, so redirect targets can be asserted directly.
func newTestClient(t *testing.T) *http.Client {
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

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	sm, _, cleanup := newTestSessionManager(t)
	defer cleanup()

	protected := RequireAuth(sm)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	srv := httptest.NewServer(sm.LoadAndSave(protected))
	defer srv.Close()

	client := newTestClient(t)
	resp, err := client.Get(srv.URL + "/new-post")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestLoadUserResolvesSessionToUser(t *testing.T) {
	sm, db, cleanup := newTestSessionManager(t)
	defer cleanup()

	user := createUser(t, db, "reader@example.com", "Reader", model.RoleMember)

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if err := sm.Login(r.Context(), user.ID, false); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	mux.HandleFunc("/whoami", func(w http.ResponseWriter, r *http.Request) {
		u := GetUser(r)
		if u == nil {
			http.Error(w, "anonymous", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(u.Name))
	})

	srv := httptest.NewServer(sm.LoadAndSave(LoadUser(sm, db)(mux)))
	defer srv.Close()

	client := newTestClient(t)

	// Anonymous request has no user in context
	resp, err := client.Get(srv.URL + "/whoami")
	if err != nil {
		t.Fatalf("GET /whoami: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", resp.StatusCode)
	}

	// Log in, then the same session resolves to the user
	resp, err = client.Get(srv.URL + "/login")
	if err != nil {
		t.Fatalf("GET /login: %v", err)
	}
	resp.Body.Close()

	resp, err = client.Get(srv.URL + "/whoami")
	if err != nil {
		t.Fatalf("GET /whoami: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("authenticated status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if string(body) != "Reader" {
		t.Errorf("whoami = %q, want Reader", body)
	}
}

func TestLoadUserDestroysStaleSession(t *testing.T) {
	sm, db, cleanup := newTestSessionManager(t)
	defer cleanup()

	user := createUser(t, db, "gone@example.com", "Gone", model.RoleMember)

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		_ = sm.Login(r.Context(), user.ID, false)
	})
	mux.HandleFunc("/whoami", func(w http.ResponseWriter, r *http.Request) {
		if GetUser(r) == nil {
			http.Error(w, "anonymous", http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(sm.LoadAndSave(LoadUser(sm, db)(mux)))
	defer srv.Close()

	client := newTestClient(t)
	resp, err := client.Get(srv.URL + "/login")
	if err != nil {
		t.Fatalf("GET /login: %v", err)
	}
	resp.Body.Close()

	// Delete the user out from under the session
	if _, err := db.Exec("DELETE FROM users WHERE id = ?", user.ID); err != nil {
		t.Fatalf("deleting user: %v", err)
	}

	resp, err = client.Get(srv.URL + "/whoami")
	if err != nil {
		t.Fatalf("GET /whoami: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 after user deleted", resp.StatusCode)
	}
}

func TestRequireAdmin(t *testing.T) {
	sm, db, cleanup := newTestSessionManager(t)
	defer cleanup()

	admin := createUser(t, db, "admin@example.com", "Admin", model.RoleAdmin)
	member := createUser(t, db, "member@example.com", "Member", model.RoleMember)

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = sm.Login(r.Context(), id, false)
	})
	mux.Handle("/new-post", RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	srv := httptest.NewServer(sm.LoadAndSave(LoadUser(sm, db)(mux)))
	defer srv.Close()

	tests := []struct {
		name   string
		userID int64
		want   int
	}{
		{"admin allowed", admin.ID, http.StatusOK},
		{"member forbidden", member.ID, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t)

			resp, err := client.Get(srv.URL + "/login?id=" + strconv.FormatInt(tt.userID, 10))
			if err != nil {
				t.Fatalf("GET /login: %v", err)
			}
			resp.Body.Close()

			resp, err = client.Get(srv.URL + "/new-post")
			if err != nil {
				t.Fatalf("GET /new-post: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestRequireAdminAnonymousForbidden(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/new-post", nil)

	RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestGetUserEmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if GetUser(req) != nil {
		t.Error("GetUser() should return nil without context value")
	}
	if GetUserID(req) != 0 {
		t.Errorf("GetUserID() = %d, want 0", GetUserID(req))
	}
}

func TestGetUserFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	user := model.User{ID: 7, Name: "Ctx", Role: model.RoleAdmin}
	req = req.WithContext(context.WithValue(req.Context(), ContextKeyUser, user))

	got := GetUser(req)
	if got == nil {
		t.Fatal("GetUser() returned nil")
	}
	if got.ID != 7 || got.Name != "Ctx" {
		t.Errorf("GetUser() = %+v, want ID 7 Name Ctx", got)
	}
	if GetUserID(req) != 7 {
		t.Errorf("GetUserID() = %d, want 7", GetUserID(req))
	}
}
