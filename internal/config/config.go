package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Email        EmailConfig        `yaml:"email"`
	JWT          JWTConfig          `yaml:"jwt"`
	Storage      StorageConfig      `yaml:"storage"`
	Log          LogConfig          `yaml:"log"`
	Auth         AuthConfig         `yaml:"auth"`
	Registration RegistrationConfig `yaml:"registration"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// PublicBaseURL is the front-end origin used in emailed links.
	PublicBaseURL   string `yaml:"public_base_url"`
	ShutdownTimeout int    `yaml:"shutdown_timeout_seconds"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Database    string `yaml:"database"`
	SSLMode     string `yaml:"ssl_mode"`
	MaxConns    int    `yaml:"max_conns"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// RedisConfig selects the token revocation and login throttling backend.
// An empty URL keeps both in process memory.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// EmailConfig contains outbound mail settings
type EmailConfig struct {
	Provider       string `yaml:"provider"` // "sendgrid", "smtp" or "log"
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	SMTPHost       string `yaml:"smtp_host"`
	SMTPPort       int    `yaml:"smtp_port"`
	SMTPUsername   string `yaml:"smtp_username"`
	SMTPPassword   string `yaml:"smtp_password"`
	From           string `yaml:"from"`
	FromName       string `yaml:"from_name"`
	// Best-effort notices go through a worker queue.
	QueueWorkers int `yaml:"queue_workers"`
	QueueSize    int `yaml:"queue_size"`
	MaxRetries   int `yaml:"max_retries"`
}

// JWTConfig contains session token settings
type JWTConfig struct {
	Secret              string `yaml:"secret"`
	AccessTokenExpiry   int    `yaml:"access_token_expiry_minutes"`
	RecoveryTokenExpiry int    `yaml:"recovery_token_expiry_minutes"`
}

// StorageConfig contains document storage settings
type StorageConfig struct {
	Type      string `yaml:"type"`       // "local"
	UploadDir string `yaml:"upload_dir"` // root directory for stored documents
	BaseURL   string `yaml:"base_url"`   // API base URL used in document URLs
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// AuthConfig contains login throttling settings
type AuthConfig struct {
	LoginMaxAttempts   int `yaml:"login_max_attempts"`
	LoginWindowMinutes int `yaml:"login_window_minutes"`
}

// RegistrationConfig contains registration reconciliation settings
type RegistrationConfig struct {
	StaleAfterHours int `yaml:"stale_after_hours"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	RetryRecoveryEmails        string `yaml:"retry_recovery_emails"`
	ReportStalledRegistrations string `yaml:"report_stalled_registrations"`
}

// Load reads configuration from a YAML file. A .env file next to the
// process, when present, is loaded into the environment first.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func envString(key string, target *string) {
	if val := os.Getenv(key); val != "" {
		*target = val
	}
}

func envInt(key string, target *int) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*target = n
		}
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.Database)
	envString("DB_SSL_MODE", &c.Database.SSLMode)

	envString("REDIS_URL", &c.Redis.URL)

	envString("EMAIL_PROVIDER", &c.Email.Provider)
	envString("SENDGRID_API_KEY", &c.Email.SendGridAPIKey)
	envString("EMAIL_FROM", &c.Email.From)
	envString("SMTP_HOST", &c.Email.SMTPHost)
	envInt("SMTP_PORT", &c.Email.SMTPPort)
	envString("SMTP_USERNAME", &c.Email.SMTPUsername)
	envString("SMTP_PASSWORD", &c.Email.SMTPPassword)

	envString("JWT_SECRET", &c.JWT.Secret)

	envString("SERVER_HOST", &c.Server.Host)
	envInt("SERVER_PORT", &c.Server.Port)
	envString("PUBLIC_BASE_URL", &c.Server.PublicBaseURL)

	envString("UPLOAD_DIR", &c.Storage.UploadDir)

	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.Email.Provider == "" {
		c.Email.Provider = "log"
	}
	if c.Email.QueueWorkers == 0 {
		c.Email.QueueWorkers = 2
	}
	if c.Email.QueueSize == 0 {
		c.Email.QueueSize = 100
	}
	if c.Email.MaxRetries == 0 {
		c.Email.MaxRetries = 3
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RecoveryTokenExpiry == 0 {
		c.JWT.RecoveryTokenExpiry = 60
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Auth.LoginMaxAttempts == 0 {
		c.Auth.LoginMaxAttempts = 5
	}
	if c.Auth.LoginWindowMinutes == 0 {
		c.Auth.LoginWindowMinutes = 15
	}
	if c.Registration.StaleAfterHours == 0 {
		c.Registration.StaleAfterHours = 24
	}
	if c.Scheduler.RetryRecoveryEmails == "" {
		c.Scheduler.RetryRecoveryEmails = "0 */15 * * * *" // every 15 minutes
	}
	if c.Scheduler.ReportStalledRegistrations == "" {
		c.Scheduler.ReportStalledRegistrations = "0 0 6 * * *" // 6 AM UTC
	}
}

// Validate checks if the configuration is valid. The database endpoint and
// the JWT signing key have no fallback.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.PublicBaseURL == "" {
		return fmt.Errorf("public base URL is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	switch c.Email.Provider {
	case "log":
	case "sendgrid":
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("SendGrid API key is required for the sendgrid provider")
		}
		if c.Email.From == "" {
			return fmt.Errorf("email from address is required")
		}
	case "smtp":
		if c.Email.SMTPHost == "" || c.Email.SMTPPort == 0 {
			return fmt.Errorf("SMTP host and port are required for the smtp provider")
		}
		if c.Email.From == "" {
			return fmt.Errorf("email from address is required")
		}
	default:
		return fmt.Errorf("unsupported email provider: %s", c.Email.Provider)
	}

	if c.Storage.Type != "local" {
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("upload directory is required")
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}

func (c *Config) RecoveryTokenTTL() time.Duration {
	return time.Duration(c.JWT.RecoveryTokenExpiry) * time.Minute
}

func (c *Config) LoginWindow() time.Duration {
	return time.Duration(c.Auth.LoginWindowMinutes) * time.Minute
}

func (c *Config) StaleRegistrationAge() time.Duration {
	return time.Duration(c.Registration.StaleAfterHours) * time.Hour
}
