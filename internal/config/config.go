package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone   AuthMode = "none"   // No authentication required (default)
	AuthModeClient AuthMode = "client" // Client-credentials bearer tokens
)

type (
	Config struct {
		HTTP
		Global
		Database
		Catalog
		Tasks
		Auth
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
		LogLevel                 string
	}
	Database struct {
		Path string
	}
	Catalog struct {
		BaseURL       string
		MaxAttempts   int
		RetryBackoff  time.Duration
		HTTPTimeout   time.Duration
		RatePerSecond float64

		// Cache eviction; zero values disable the corresponding bound.
		CacheTTL           time.Duration
		CacheMaxEntries    int
		CachePruneSchedule string // Cron format: "*/10 * * * *" = every 10 minutes
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Auth struct {
		Mode                 AuthMode
		ClientID             string
		ClientSecret         string
		TokenExpiry          time.Duration
		BcryptCost           int
		TokenCleanupSchedule string
	}
	Audit struct {
		Dir string // Empty disables payload auditing
	}
)

// SlogLevel maps the configured log level name onto a slog level.
func (g Global) SlogLevel() slog.Level {
	switch strings.ToLower(g.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("log_level", "info")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_dir", "")

	// External catalog provider
	v.SetDefault("catalog_base_url", DefaultCatalogBaseURL)
	v.SetDefault("catalog_max_attempts", 3)
	v.SetDefault("catalog_retry_backoff", "2s")
	v.SetDefault("catalog_http_timeout", "10s")
	v.SetDefault("catalog_rate_per_second", 5.0)
	v.SetDefault("catalog_cache_ttl", "0s")
	v.SetDefault("catalog_cache_max_entries", 0)
	v.SetDefault("catalog_cache_prune_schedule", "*/10 * * * *")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_client_id", "")
	v.SetDefault("auth_client_secret", "")
	v.SetDefault("auth_token_expiry", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_token_cleanup_schedule", "0 * * * *") // Hourly at :00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
			LogLevel:                 v.GetString("LOG_LEVEL"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Catalog: Catalog{
			BaseURL:            v.GetString("CATALOG_BASE_URL"),
			MaxAttempts:        v.GetInt("CATALOG_MAX_ATTEMPTS"),
			RetryBackoff:       v.GetDuration("CATALOG_RETRY_BACKOFF"),
			HTTPTimeout:        v.GetDuration("CATALOG_HTTP_TIMEOUT"),
			RatePerSecond:      v.GetFloat64("CATALOG_RATE_PER_SECOND"),
			CacheTTL:           v.GetDuration("CATALOG_CACHE_TTL"),
			CacheMaxEntries:    v.GetInt("CATALOG_CACHE_MAX_ENTRIES"),
			CachePruneSchedule: v.GetString("CATALOG_CACHE_PRUNE_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Auth: Auth{
			Mode:                 AuthMode(v.GetString("AUTH_MODE")),
			ClientID:             v.GetString("AUTH_CLIENT_ID"),
			ClientSecret:         v.GetString("AUTH_CLIENT_SECRET"),
			TokenExpiry:          v.GetDuration("AUTH_TOKEN_EXPIRY"),
			BcryptCost:           v.GetInt("AUTH_BCRYPT_COST"),
			TokenCleanupSchedule: v.GetString("AUTH_TOKEN_CLEANUP_SCHEDULE"),
		},
		Audit: Audit{
			Dir: v.GetString("AUDIT_DIR"),
		},
	}
}
