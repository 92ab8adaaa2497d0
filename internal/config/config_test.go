// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Clear environment and set only required var
	os.Clearenv()
	setEnv(t, "INKWELL_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Check defaults
	if cfg.DBPath != "./data/inkwell.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/inkwell.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.SessionLifetime != 24*time.Hour {
		t.Errorf("SessionLifetime = %s, want %s", cfg.SessionLifetime, 24*time.Hour)
	}
	if cfg.RememberMeLifetime != 720*time.Hour {
		t.Errorf("RememberMeLifetime = %s, want %s", cfg.RememberMeLifetime, 720*time.Hour)
	}
	if cfg.AdminEmail != "admin@example.com" {
		t.Errorf("AdminEmail = %q, want %q", cfg.AdminEmail, "admin@example.com")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	customSecret := "custom-secret-key-32-bytes-long!"
	setEnv(t, "INKWELL_SESSION_SECRET", customSecret)
	setEnv(t, "INKWELL_DB_PATH", "/custom/path.db")
	setEnv(t, "INKWELL_SERVER_HOST", "0.0.0.0")
	setEnv(t, "INKWELL_SERVER_PORT", "3000")
	setEnv(t, "INKWELL_ENV", "production")
	setEnv(t, "INKWELL_REMEMBER_ME_LIFETIME", "168h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SessionSecret != customSecret {
		t.Errorf("SessionSecret = %q, want %q", cfg.SessionSecret, customSecret)
	}
	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/custom/path.db")
	}
	if cfg.ServerHost != "0.0.0.0" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "0.0.0.0")
	}
	if cfg.ServerPort != 3000 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 3000)
	}
	if cfg.Env != "production" {
		t.Errorf("Env = %q, want %q", cfg.Env, "production")
	}
	if cfg.RememberMeLifetime != 168*time.Hour {
		t.Errorf("RememberMeLifetime = %s, want %s", cfg.RememberMeLifetime, 168*time.Hour)
	}
}

func TestLoad_RequiredSessionSecret(t *testing.T) {
	os.Clearenv()
	// Don't set INKWELL_SESSION_SECRET

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail when INKWELL_SESSION_SECRET is not set")
	}
}

func TestLoad_ShortSessionSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "INKWELL_SESSION_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail when INKWELL_SESSION_SECRET is shorter than 32 bytes")
	}
}

func TestLoad_WeakSessionSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "INKWELL_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail for a known default session secret")
	}
}

func TestLoad_RememberMeShorterThanSession(t *testing.T) {
	os.Clearenv()
	setEnv(t, "INKWELL_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")
	setEnv(t, "INKWELL_SESSION_LIFETIME", "48h")
	setEnv(t, "INKWELL_REMEMBER_ME_LIFETIME", "24h")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail when remember-me lifetime is shorter than the session lifetime")
	}
}

func TestServerAddr(t *testing.T) {
	cfg := Config{ServerHost: "localhost", ServerPort: 8080}
	if got := cfg.ServerAddr(); got != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want %q", got, "localhost:8080")
	}
}
