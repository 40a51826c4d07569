package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Storage  StorageConfig
	Summary  SummaryConfig
	Email    EmailConfig
	Slack    SlackConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	Timezone    string
	FrontendURL string
}

// StorageConfig selects where logos and signatures live. Driver is "local"
// (BasePath served under BaseURL) or "s3".
type StorageConfig struct {
	Driver   string
	BasePath string
	BaseURL  string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3Prefix    string
	S3PublicURL string
}

// SummaryConfig configures the Gemini-backed attendance summary.
// An empty APIKey switches the generator to its placeholder response.
type SummaryConfig struct {
	APIKey string
	Model  string
}

// EmailConfig configures review notification mail. Driver is "smtp" or "ses".
// With the smtp driver an empty Host disables sending.
type EmailConfig struct {
	Driver   string
	From     string
	FromName string

	Host     string
	Port     int
	Username string
	Password string

	SESRegion string
}

// SlackConfig routes review and job failure notices. An empty BotToken
// disables Slack.
type SlackConfig struct {
	BotToken     string
	InfoChannel  string
	ErrorChannel string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, relying on process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "workforce-attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		FrontendURL: getEnv("APP_FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.Storage = StorageConfig{
		Driver:      getEnv("STORAGE_DRIVER", "local"),
		BasePath:    getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:     getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", ""),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Prefix:    getEnv("S3_PREFIX", ""),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),
	}

	config.Slack = SlackConfig{
		BotToken:     getEnv("SLACK_BOT_TOKEN", ""),
		InfoChannel:  getEnv("SLACK_INFO_CHANNEL", ""),
		ErrorChannel: getEnv("SLACK_ERROR_CHANNEL", ""),
	}

	config.Summary = SummaryConfig{
		APIKey: getEnv("GEMINI_API_KEY", ""),
		Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.Email = EmailConfig{
		Driver:    getEnv("EMAIL_DRIVER", "smtp"),
		From:      getEnv("EMAIL_FROM", "no-reply@workforce-attendance.local"),
		FromName:  getEnv("EMAIL_FROM_NAME", "Workforce Attendance"),
		Host:      getEnv("SMTP_HOST", ""),
		Port:      smtpPort,
		Username:  getEnv("SMTP_USERNAME", ""),
		Password:  getEnv("SMTP_PASSWORD", ""),
		SESRegion: getEnv("SES_REGION", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_TIME: %w", err)
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER: %q", c.Storage.Driver)
	}
	if c.Email.Driver != "smtp" && c.Email.Driver != "ses" {
		return fmt.Errorf("invalid EMAIL_DRIVER: %q", c.Email.Driver)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the time zone used to decide what "today" is.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AllowedOrigins returns the comma separated APP_FRONTEND_URL as a slice.
func (c *Config) AllowedOrigins() []string {
	return splitList(c.App.FrontendURL)
}

// ReviewURL is the frontend page engineers open to re-sign a returned review.
func (c *Config) ReviewURL() string {
	origins := c.AllowedOrigins()
	if len(origins) == 0 {
		return ""
	}
	return strings.TrimRight(origins[0], "/") + "/reviews"
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
