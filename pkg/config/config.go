package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional: snapshot archive)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External APIs
	Yahoo     YahooConfig
	WorldBank WorldBankConfig

	// Provider cache
	Cache CacheConfig

	// Scoring rules file (Piotroski thresholds, Buffett countries)
	ScoringConfigPath string

	// Scheduler
	SchedulerEnabled bool

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether a database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// YahooConfig holds Yahoo Finance API configuration
type YahooConfig struct {
	BaseURL       string
	SearchBaseURL string
	RateLimit     int // requests per second
	Timeout       time.Duration
	MaxRetries    int    // 0: 재시도 없음
	CookieURL     string // quoteSummary crumb 발급용 쿠키 엔드포인트
}

// WorldBankConfig holds World Bank open data API configuration
type WorldBankConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int // 0: 재시도 없음
}

// CacheConfig holds provider cache TTLs
type CacheConfig struct {
	SnapshotTTL time.Duration
	MacroTTL    time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "5000"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// External APIs
		Yahoo: YahooConfig{
			BaseURL:       getEnv("YAHOO_BASE_URL", "https://query2.finance.yahoo.com"),
			SearchBaseURL: getEnv("YAHOO_SEARCH_BASE_URL", "https://query1.finance.yahoo.com"),
			RateLimit:     getEnvAsInt("YAHOO_RATE_LIMIT", 5),
			Timeout:       getEnvAsDuration("YAHOO_TIMEOUT", "15s"),
			MaxRetries:    getEnvAsInt("YAHOO_MAX_RETRIES", 2),
			CookieURL:     getEnv("YAHOO_COOKIE_URL", "https://fc.yahoo.com"),
		},

		WorldBank: WorldBankConfig{
			BaseURL:    getEnv("WORLDBANK_BASE_URL", "https://api.worldbank.org/v2"),
			Timeout:    getEnvAsDuration("WORLDBANK_TIMEOUT", "20s"),
			MaxRetries: getEnvAsInt("WORLDBANK_MAX_RETRIES", 3),
		},

		Cache: CacheConfig{
			SnapshotTTL: getEnvAsDuration("CACHE_SNAPSHOT_TTL", "15m"),
			MacroTTL:    getEnvAsDuration("CACHE_MACRO_TTL", "24h"),
		},

		ScoringConfigPath: getEnv("SCORING_CONFIG", ""),
		SchedulerEnabled:  getEnvAsBool("SCHEDULER_ENABLED", true),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are consistent
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Yahoo.RateLimit <= 0 {
		return fmt.Errorf("YAHOO_RATE_LIMIT must be positive")
	}

	if c.Yahoo.MaxRetries < 0 || c.WorldBank.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must not be negative")
	}

	if c.Cache.SnapshotTTL <= 0 || c.Cache.MacroTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
