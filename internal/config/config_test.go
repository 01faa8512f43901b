package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "test-cloud")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  google_client_id: "gid"
  google_client_secret: "gsecret"

cloudinary:
  cloud_name: "test-cloud"
  api_key: "key"
  api_secret: "secret"
  folder: "products"

mail:
  host: "smtp.example.com"
  port: 587
  user: "mailer@example.com"
  password: "secret"
  admin_email: "admin@example.com"

rate_limit:
  contact_per_minute: 3
  cleanup_interval: "10m"

cors:
  allowed_origins: "https://admin.example.com"
  allow_credentials: true

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	// Database
	if cfg.Database.DSN != "postgres://u:p@localhost:5432/testdb" {
		t.Errorf("database.dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}

	// Auth
	if cfg.Auth.GoogleClientID != "gid" {
		t.Errorf("auth.google_client_id = %q", cfg.Auth.GoogleClientID)
	}
	if cfg.Auth.AccessTokenTTL != 15*time.Minute {
		t.Errorf("auth.access_token_ttl = %v, want 15m (default)", cfg.Auth.AccessTokenTTL)
	}

	// Cloudinary
	if cfg.Cloudinary.CloudName != "test-cloud" {
		t.Errorf("cloudinary.cloud_name = %q", cfg.Cloudinary.CloudName)
	}
	if cfg.Cloudinary.Folder != "products" {
		t.Errorf("cloudinary.folder = %q, want %q", cfg.Cloudinary.Folder, "products")
	}

	// Mail
	if cfg.Mail.AdminEmail != "admin@example.com" {
		t.Errorf("mail.admin_email = %q", cfg.Mail.AdminEmail)
	}
	if !cfg.Mail.HasMailer() {
		t.Error("mail.HasMailer should be true")
	}

	// RateLimit
	if cfg.RateLimit.ContactPerMinute != 3 {
		t.Errorf("rate_limit.contact_per_minute = %d, want 3", cfg.RateLimit.ContactPerMinute)
	}

	// CORS
	if cfg.CORS.AllowedOrigins != "https://admin.example.com" {
		t.Errorf("cors.allowed_origins = %q", cfg.CORS.AllowedOrigins)
	}
	if !cfg.CORS.AllowCredentials {
		t.Error("cors.allow_credentials should be true")
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")

	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.RateLimit.ContactPerMinute != 5 {
		t.Errorf("rate_limit.contact_per_minute = %d, want 5 (default)", cfg.RateLimit.ContactPerMinute)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_JWTSecretTooShort(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short JWT secret")
	}
}

func TestValidate_PortOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 70000

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for port > 65535")
	}
}

func TestValidate_ContactPerMinuteZero(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ContactPerMinute = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for contact_per_minute = 0")
	}
}

func TestValidate_MailerWithoutHost(t *testing.T) {
	cfg := validConfig()
	cfg.Mail.User = "mailer@example.com"
	cfg.Mail.AdminEmail = "admin@example.com"
	cfg.Mail.Host = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for mail credentials without host")
	}
}

func TestHasGoogleOAuth(t *testing.T) {
	auth := AuthConfig{GoogleClientID: "gid", GoogleClientSecret: "gsecret"}
	if !auth.HasGoogleOAuth() {
		t.Error("expected HasGoogleOAuth=true with both credentials")
	}
	auth.GoogleClientSecret = ""
	if auth.HasGoogleOAuth() {
		t.Error("expected HasGoogleOAuth=false without a secret")
	}
}

func TestHasMailer(t *testing.T) {
	mail := MailConfig{User: "mailer@example.com", AdminEmail: "admin@example.com"}
	if !mail.HasMailer() {
		t.Error("expected HasMailer=true with user and admin email")
	}
	mail.AdminEmail = ""
	if mail.HasMailer() {
		t.Error("expected HasMailer=false without an admin email")
	}
}

// validConfig returns a Config that passes all validation checks.
func validConfig() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Auth: AuthConfig{
			JWTSecret: "this-is-a-very-long-jwt-secret-for-testing-32+",
		},
		RateLimit: RateLimitConfig{ContactPerMinute: 5},
	}
}
