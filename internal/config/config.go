package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Admin credential configuration
	Admin AdminConfig

	// Admin session token configuration
	Auth AuthConfig

	// Lead notification sink configuration
	Notify NotifyConfig

	// Recovery-token email configuration
	SMTP SMTPConfig

	// CORS configuration
	CORS CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver             string // "postgres" or "sqlite"
	URL                string // Postgres connection URL
	SQLitePath         string // SQLite database file path
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// AdminConfig holds admin credential configuration
type AdminConfig struct {
	DefaultPasscode string // seeds the credential store on first start
	BcryptCost      int
	ResetTokenTTL   time.Duration
}

// AuthConfig holds admin session token configuration
type AuthConfig struct {
	JWTSecret     string
	SessionExpiry time.Duration
	RequireToken  bool // when true, admin routes require a Bearer session token
}

// NotifyConfig holds lead notification sink configuration
type NotifyConfig struct {
	Mode       string // "dev" logs only, "webhook" posts to WebhookURL
	WebhookURL string
	Timeout    time.Duration
}

// SMTPConfig holds recovery-token email delivery configuration.
// Delivery is disabled when RecoveryTo is empty.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	RecoveryTo string
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Driver:             getEnv("DATABASE_DRIVER", "sqlite"),
			URL:                getEnv("DATABASE_URL", ""),
			SQLitePath:         getEnv("SQLITE_PATH", "./leads.db"),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Admin: AdminConfig{
			DefaultPasscode: getEnv("ADMIN_DEFAULT_PASSCODE", "vinesadmin"),
			BcryptCost:      getEnvAsInt("BCRYPT_COST", 12),
			ResetTokenTTL:   time.Duration(getEnvAsInt("RESET_TOKEN_TTL_MINUTES", 15)) * time.Minute,
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			SessionExpiry: time.Duration(getEnvAsInt("JWT_SESSION_EXPIRY", 3600)) * time.Second,
			RequireToken:  getEnvAsBool("AUTH_REQUIRE_TOKEN", false),
		},
		Notify: NotifyConfig{
			Mode:       getEnv("NOTIFY_MODE", "dev"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
			Timeout:    time.Duration(getEnvAsInt("NOTIFY_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Username:   getEnv("SMTP_USERNAME", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			From:       getEnv("SMTP_FROM", "no-reply@vinesrealty.example"),
			RecoveryTo: getEnv("RECOVERY_EMAIL_TO", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when DATABASE_DRIVER is postgres")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when DATABASE_DRIVER is sqlite")
		}
	default:
		return fmt.Errorf("invalid DATABASE_DRIVER: %s (must be 'postgres' or 'sqlite')", c.Database.Driver)
	}

	if c.Admin.DefaultPasscode == "" {
		return fmt.Errorf("ADMIN_DEFAULT_PASSCODE must not be empty")
	}

	if c.Auth.RequireToken && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_REQUIRE_TOKEN is enabled")
	}

	if c.Notify.Mode == "webhook" && c.Notify.WebhookURL == "" {
		return fmt.Errorf("NOTIFY_WEBHOOK_URL is required when NOTIFY_MODE is webhook")
	}

	if c.SMTP.RecoveryTo != "" && c.SMTP.Host == "" {
		return fmt.Errorf("SMTP_HOST is required when RECOVERY_EMAIL_TO is set")
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
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
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
