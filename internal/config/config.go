package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// devJWTSecret signs tokens in offline mode when JWT_SECRET is unset.
const devJWTSecret = "ai-tutor-secret-key-2024"

var ErrDevSecret = errors.New("JWT_SECRET must be set when MODE=online")

type Config struct {
	Mode     Mode
	HTTPAddr string
	LogMode  string

	DBDriver string // sqlite|libsql|postgres
	DBDSN    string

	JWTSecret    string
	TokenTTL     time.Duration
	CookieSecure bool

	CORSOrigins []string

	BlobBasePath string

	RedisURL string
	CacheTTL time.Duration

	// OpenAI-compatible chat completions endpoint for the tutor
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	SeedDemo bool
}

// Load reads an optional dotenv file and then the process environment.
// A missing file is not an error.
func Load() (Config, error) {
	path := envOr("ENV_FILE", ".env")
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return Config{}, err
		}
	}
	c := FromEnv()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings that are only acceptable for local use.
func (c Config) Validate() error {
	if c.Mode == ModeOnline && (c.JWTSecret == "" || c.JWTSecret == devJWTSecret) {
		return ErrDevSecret
	}
	return nil
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	defOrigins, defLog := "http://localhost:3000", "dev"
	if mode == ModeOnline {
		defOrigins, defLog = "https://aitutor.example.com", "prod"
	}
	return Config{
		Mode:         mode,
		HTTPAddr:     envOr("HTTP_ADDR", ":8080"),
		LogMode:      envOr("LOG_MODE", defLog),
		DBDriver:     envOr("DB_DRIVER", "sqlite"),
		DBDSN:        envOr("DB_DSN", ""),
		JWTSecret:    envOr("JWT_SECRET", devJWTSecret),
		TokenTTL:     envDuration("TOKEN_TTL", 7*24*time.Hour),
		CookieSecure: envBool("COOKIE_SECURE", mode == ModeOnline),
		CORSOrigins:  csvOr("CORS_ORIGINS", defOrigins),
		BlobBasePath: envOr("BLOB_BASE_PATH", "./data/uploads"),
		RedisURL:     os.Getenv("REDIS_URL"),
		CacheTTL:     envDuration("CACHE_TTL", 10*time.Minute),
		LLMBaseURL:   envOr("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:    os.Getenv("LLM_API_KEY"),
		LLMModel:     envOr("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout:   envDuration("LLM_TIMEOUT", 60*time.Second),
		SeedDemo:     envBool("SEED_DEMO", false),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
