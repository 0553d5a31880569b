// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. A .env file in the working directory is read first, if present.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted by STORE_BACKEND.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreValkey   = "valkey"
	StoreS3       = "s3"
)

// StoreBackends lists every accepted STORE_BACKEND value.
var StoreBackends = []string{StoreMemory, StoreFile, StoreSQLite, StorePostgres, StoreValkey, StoreS3}

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host    string
	Port    string
	Env     string // "development", "production", "testing"
	BaseURL string // public URL used in share links

	// Collection store
	StoreBackend string
	DataDir      string // file backend directory and default SQLite location
	SQLitePath   string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// S3-compatible object storage
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Prefix    string

	// AI provider settings
	AIProvider       string // "gemini", "openai", "synthetic"
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string
	GeminiBaseURL    string
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIImageModel string
	OpenAIBaseURL    string
	GenerationEvent  string

	// Sessions
	SessionStore string // "memory" or "valkey"
	SessionTTL   time.Duration

	// Rate limits on the generate and mint endpoints
	GenerateInterval time.Duration
	GenerateBurst    int

	// Simulated NFT minting
	MintDelay time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if a value cannot be
// parsed or if critical values are missing in production mode.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Host:    envOrDefault("APP_HOST", "0.0.0.0"),
		Port:    envOrDefault("APP_PORT", "8080"),
		Env:     envOrDefault("APP_ENV", "development"),
		BaseURL: os.Getenv("APP_BASE_URL"),

		StoreBackend: strings.ToLower(envOrDefault("STORE_BACKEND", StoreFile)),
		DataDir:      envOrDefault("DATA_DIR", "data"),
		SQLitePath:   os.Getenv("SQLITE_PATH"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "fashiontechx"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "fashiontechx"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "fashiontechx"),
		S3Prefix:    envOrDefault("S3_PREFIX", "fashiontechx/"),

		AIProvider:       strings.ToLower(envOrDefault("AI_PROVIDER", "gemini")),
		GeminiAPIKey:     firstEnv("GEMINI_API_KEY", "API_KEY"),
		GeminiModel:      envOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiImageModel: envOrDefault("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiBaseURL:    os.Getenv("GEMINI_BASE_URL"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIImageModel: envOrDefault("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		OpenAIBaseURL:    envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		GenerationEvent:  os.Getenv("GENERATION_EVENT"),

		SessionStore: strings.ToLower(envOrDefault("SESSION_STORE", "memory")),
	}

	var err error
	if cfg.SessionTTL, err = envDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.GenerateInterval, err = envDuration("RATE_LIMIT_INTERVAL", 12*time.Second); err != nil {
		return nil, err
	}
	if cfg.GenerateBurst, err = envInt("RATE_LIMIT_BURST", 5); err != nil {
		return nil, err
	}
	if cfg.MintDelay, err = envDuration("MINT_DELAY", 2500*time.Millisecond); err != nil {
		return nil, err
	}

	if !slices.Contains(StoreBackends, cfg.StoreBackend) {
		return nil, fmt.Errorf("STORE_BACKEND must be one of %s, got %q", strings.Join(StoreBackends, ", "), cfg.StoreBackend)
	}
	if cfg.SessionStore != "memory" && cfg.SessionStore != "valkey" {
		return nil, fmt.Errorf("SESSION_STORE must be memory or valkey, got %q", cfg.SessionStore)
	}

	if cfg.Env == "production" {
		if cfg.StoreBackend == StorePostgres && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.AIProvider != "synthetic" && cfg.APIKey() == "" {
			return nil, fmt.Errorf("an API key for AI_PROVIDER %q must be set in production", cfg.AIProvider)
		}
	}

	return cfg, nil
}

// APIKey returns the key configured for the selected AI provider.
func (c *Config) APIKey() string {
	switch c.AIProvider {
	case "gemini":
		return c.GeminiAPIKey
	case "openai":
		return c.OpenAIAPIKey
	}
	return ""
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// SQLiteFile returns the SQLite database path, defaulting to a file in DataDir.
func (c *Config) SQLiteFile() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return strings.TrimRight(c.DataDir, "/") + "/fashiontechx.db"
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// UsesValkey reports whether any component needs a Valkey connection.
func (c *Config) UsesValkey() bool {
	return c.StoreBackend == StoreValkey || c.SessionStore == "valkey"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
