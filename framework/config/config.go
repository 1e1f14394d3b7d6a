package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct, populated from the
// environment at bootstrap.
type Config struct {
	App       AppConfig
	Log       LogConfig
	Bookmarks BookmarksConfig
}

type AppConfig struct {
	Name string
	Env  string // local | production | testing
	Port string
}

type LogConfig struct {
	Level string // debug | info | warn | error
}

type BookmarksConfig struct {
	// PageSize caps how many bookmarks a single list request returns.
	PageSize int
}

// Load reads .env (if present) and populates a Config from environment
// variables. Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name: env("APP_NAME", "linkstash"),
			Env:  env("APP_ENV", "local"),
			Port: env("APP_PORT", "8000"),
		},
		Log: LogConfig{
			Level: env("LOG_LEVEL", "info"),
		},
		Bookmarks: BookmarksConfig{
			PageSize: GetInt("BOOKMARKS_PAGE_SIZE", 100),
		},
	}
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool { return c.App.Env == "production" }

// IsTesting reports whether the app runs with APP_ENV=testing.
func (c *Config) IsTesting() bool { return c.App.Env == "testing" }

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
