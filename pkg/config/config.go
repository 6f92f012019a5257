package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Marketplace MarketplaceConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	Statistics  StatisticsConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	Environment    string
	ServiceName    string
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	CORSOrigins    string // Comma-separated list of allowed origins
}

// MarketplaceConfig holds configuration for the marketplace backend API
type MarketplaceConfig struct {
	BaseURL        string
	TimeoutSeconds int
	APIKey         string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisAddr returns the host:port address for the Redis client
func (c *RedisConfig) RedisAddr() string {
	return c.Host + ":" + c.Port
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled       bool
	WindowSeconds int
	Limit         int
	RedisPrefix   string
}

// StatisticsConfig holds tunables for the statistics engine
type StatisticsConfig struct {
	DefaultTimeframeDays int
	TopServicesLimit     int
	RecentBookingsLimit  int
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			ServiceName:    serviceName,
			ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 30),
			RequestTimeout: getEnvAsInt("REQUEST_TIMEOUT", 25),
			CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Marketplace: MarketplaceConfig{
			BaseURL:        getEnv("MARKETPLACE_API_URL", "http://localhost:8081"),
			TimeoutSeconds: getEnvAsInt("MARKETPLACE_TIMEOUT_SECONDS", 10),
			APIKey:         getEnv("MARKETPLACE_API_KEY", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", false),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			Limit:         getEnvAsInt("RATE_LIMIT_LIMIT", 120),
			RedisPrefix:   getEnv("RATE_LIMIT_REDIS_PREFIX", "rate-limit"),
		},
		Statistics: StatisticsConfig{
			DefaultTimeframeDays: getEnvAsInt("STATS_DEFAULT_TIMEFRAME_DAYS", 30),
			TopServicesLimit:     getEnvAsInt("STATS_TOP_SERVICES_LIMIT", 5),
			RecentBookingsLimit:  getEnvAsInt("STATS_RECENT_BOOKINGS_LIMIT", 10),
		},
	}

	if cfg.Marketplace.BaseURL == "" {
		return nil, fmt.Errorf("MARKETPLACE_API_URL must not be empty")
	}

	if cfg.Marketplace.TimeoutSeconds <= 0 {
		cfg.Marketplace.TimeoutSeconds = 10
	}

	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 25
	}

	if cfg.RateLimit.WindowSeconds <= 0 {
		cfg.RateLimit.WindowSeconds = 60
	}

	if cfg.Statistics.DefaultTimeframeDays <= 0 {
		cfg.Statistics.DefaultTimeframeDays = 30
	}

	if cfg.Statistics.TopServicesLimit <= 0 {
		cfg.Statistics.TopServicesLimit = 5
	}

	if cfg.Statistics.RecentBookingsLimit <= 0 {
		cfg.Statistics.RecentBookingsLimit = 10
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
