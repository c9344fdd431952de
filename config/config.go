package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Mail       MailConfig
	S3         S3Config
	Logger     LoggerConfig
	Promotions PromotionConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port int
	Mode string // gin mode: "debug", "release" or "test"
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Path string // sqlite database file path
}

// JWTConfig holds token signing configuration.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// MailConfig holds Mailgun credentials. When disabled, outbound mail is
// logged and dropped.
type MailConfig struct {
	Enabled  bool
	APIKey   string
	Domain   string
	FromName string
}

// S3Config holds object storage configuration for file uploads.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// PromotionConfig holds the background promotion-expiry sweep settings.
type PromotionConfig struct {
	SweepInterval time.Duration
	Window        time.Duration // how long a payment promotes a restaurant
}

// JWTSecret is the signing key used by the token middleware. Set by Load.
var JWTSecret []byte

// Load reads configuration from the environment (and a .env file when
// present) and validates it. The process must not start on a bad config.
func Load() (*Config, error) {
	// Best effort: local development keeps settings in .env.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("PORT", 8080),
			Mode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "dishdash.db"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			TTL:    getEnvAsDuration("JWT_TTL", 24*time.Hour),
		},
		Mail: MailConfig{
			Enabled:  getEnvAsBool("MAIL_ENABLED", false),
			APIKey:   getEnv("MAILGUN_API_KEY", ""),
			Domain:   getEnv("MAILGUN_DOMAIN", ""),
			FromName: getEnv("MAIL_FROM_NAME", "DishDash"),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-east-1"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Promotions: PromotionConfig{
			SweepInterval: getEnvAsDuration("PROMOTION_SWEEP_INTERVAL", time.Hour),
			Window:        getEnvAsDuration("PROMOTION_WINDOW", 7*24*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	JWTSecret = []byte(cfg.JWT.Secret)

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT TTL must be positive")
	}

	if c.Mail.Enabled {
		if c.Mail.APIKey == "" {
			return fmt.Errorf("MAILGUN_API_KEY is required when mail is enabled")
		}
		if c.Mail.Domain == "" {
			return fmt.Errorf("MAILGUN_DOMAIN is required when mail is enabled")
		}
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Promotions.SweepInterval <= 0 {
		return fmt.Errorf("promotion sweep interval must be positive")
	}

	if c.Promotions.Window <= 0 {
		return fmt.Errorf("promotion window must be positive")
	}

	return nil
}

// Address returns the server listen address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
