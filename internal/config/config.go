package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Payout    PayoutConfig    `yaml:"payout"`
	Earnings  EarningsConfig  `yaml:"earnings"`
	Tariff    TariffConfig    `yaml:"tariff"`
	Payment   PaymentConfig   `yaml:"payment"`
	Email     EmailConfig     `yaml:"email"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// PayoutConfig contains payout policy limits
type PayoutConfig struct {
	MinimumCents  int32 `yaml:"minimum_cents"`
	DailyCapCents int32 `yaml:"daily_cap_cents"`
}

// EarningsConfig contains settlement settings
type EarningsConfig struct {
	ClearingHoldHours int `yaml:"clearing_hold_hours"` // PENDING → AVAILABLE after this long
}

// TariffConfig prices paid deliveries when the item carries no pre-paid amount
type TariffConfig struct {
	BaseFeeCents int32 `yaml:"base_fee_cents"`
	PerKmCents   int32 `yaml:"per_km_cents"`
}

// PaymentConfig points at the external charge authority
type PaymentConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// EmailConfig contains SendGrid settings for the notification channel
type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ReapExpiredOffers          string `yaml:"reap_expired_offers"`
	ReleaseClearedEarnings     string `yaml:"release_cleared_earnings"`
	RecoverUnsettledDeliveries string `yaml:"recover_unsettled_deliveries"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}

	// Payment gateway
	if val := os.Getenv("PAYMENT_GATEWAY_URL"); val != "" {
		c.Payment.BaseURL = val
	}

	// Payout limits
	if val := os.Getenv("PAYOUT_MINIMUM_CENTS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Payout.MinimumCents)
	}
	if val := os.Getenv("PAYOUT_DAILY_CAP_CENTS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Payout.DailyCapCents)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
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

	// Payout defaults
	if c.Payout.MinimumCents == 0 {
		c.Payout.MinimumCents = 1000 // $10.00
	}
	if c.Payout.DailyCapCents == 0 {
		c.Payout.DailyCapCents = 50000 // $500.00
	}
	if c.Payout.MinimumCents < 0 || c.Payout.DailyCapCents < c.Payout.MinimumCents {
		return fmt.Errorf("payout daily cap (%d) must be at least the minimum (%d)",
			c.Payout.DailyCapCents, c.Payout.MinimumCents)
	}

	// Earnings defaults
	if c.Earnings.ClearingHoldHours == 0 {
		c.Earnings.ClearingHoldHours = 24
	}

	// Tariff defaults
	if c.Tariff.BaseFeeCents == 0 {
		c.Tariff.BaseFeeCents = 300 // $3.00 flag fall
	}
	if c.Tariff.PerKmCents == 0 {
		c.Tariff.PerKmCents = 80
	}

	// Payment gateway defaults
	if c.Payment.TimeoutSeconds == 0 {
		c.Payment.TimeoutSeconds = 5
	}

	// Scheduler defaults
	if c.Scheduler.ReapExpiredOffers == "" {
		c.Scheduler.ReapExpiredOffers = "0 */10 * * * *" // every 10 minutes
	}
	if c.Scheduler.ReleaseClearedEarnings == "" {
		c.Scheduler.ReleaseClearedEarnings = "0 0 * * * *" // hourly
	}
	if c.Scheduler.RecoverUnsettledDeliveries == "" {
		c.Scheduler.RecoverUnsettledDeliveries = "0 30 * * * *" // hourly, offset from release
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
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

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
