package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "DB_DRIVER", "TOKEN_TTL", "CORS_ORIGINS", "COOKIE_SECURE"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Mode != ModeOffline {
		t.Fatalf("mode = %q", c.Mode)
	}
	if c.HTTPAddr != ":8080" || c.DBDriver != "sqlite" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.TokenTTL != 7*24*time.Hour {
		t.Fatalf("token ttl = %v", c.TokenTTL)
	}
	if c.CookieSecure {
		t.Fatal("cookie should not be secure offline")
	}
	if len(c.CORSOrigins) != 1 || c.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("origins = %v", c.CORSOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("DB_DRIVER", "libsql")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("CORS_ORIGINS", " https://a.test , ,https://b.test")
	t.Setenv("SEED_DEMO", "yes")
	c := FromEnv()
	if !c.CookieSecure || c.LogMode != "prod" {
		t.Fatalf("online defaults not applied: %+v", c)
	}
	if c.DBDriver != "libsql" || c.TokenTTL != time.Hour || !c.SeedDemo {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "https://b.test" {
		t.Fatalf("origins = %v", c.CORSOrigins)
	}
}

func TestBadDurationFallsBack(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")
	if got := FromEnv().CacheTTL; got != 10*time.Minute {
		t.Fatalf("cache ttl = %v", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("LLM_MODEL=tutor-small\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)
	t.Setenv("LLM_MODEL", "")
	os.Unsetenv("LLM_MODEL")
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.LLMModel != "tutor-small" {
		t.Fatalf("model = %q", c.LLMModel)
	}
}

func TestOnlineModeNeedsSecret(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("MODE", "online")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); !errors.Is(err, ErrDevSecret) {
		t.Fatalf("err = %v", err)
	}

	t.Setenv("JWT_SECRET", "prod-secret-from-vault")
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.JWTSecret != "prod-secret-from-vault" {
		t.Fatalf("secret = %q", c.JWTSecret)
	}

	t.Setenv("MODE", "offline")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err != nil {
		t.Fatalf("offline default secret rejected: %v", err)
	}
}
