package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Auth.TTL != 24*time.Hour {
		t.Errorf("Expected 24h token TTL, got %s", cfg.Auth.TTL)
	}
	if cfg.Content.MaxCommentLength != 100 {
		t.Errorf("Expected comment limit 100, got %d", cfg.Content.MaxCommentLength)
	}
	if cfg.Database.MigrationsPath != "./migrations" {
		t.Errorf("Expected default migrations path, got %s", cfg.Database.MigrationsPath)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", strings.Repeat("s", 40))
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("COMMENT_MAX_LENGTH", "250")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Auth.TTL != 30*time.Minute {
		t.Errorf("Expected 30m TTL, got %s", cfg.Auth.TTL)
	}
	if cfg.Content.MaxCommentLength != 250 {
		t.Errorf("Expected comment limit 250, got %d", cfg.Content.MaxCommentLength)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("Expected fallback to 25 open conns, got %d", cfg.Database.MaxOpenConns)
	}
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for short JWT secret")
	}
}

func TestGetDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "forum", SSLMode: "disable"}

	want := "host=db port=5432 user=u password=p dbname=forum sslmode=disable"
	if got := c.GetDSN(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
