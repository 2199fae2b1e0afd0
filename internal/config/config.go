package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	BotToken string  `envconfig:"BOT_TOKEN" required:"true"`
	AdminIDs []int64 `envconfig:"ADMIN_IDS"`

	Database DatabaseConfig
	Payment  PaymentConfig
	SMTP     SMTPConfig
	Redis    RedisConfig

	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel       string        `envconfig:"APP_LOG_LEVEL" default:"info"`
	Timezone       string        `envconfig:"APP_TIMEZONE" default:"Europe/Warsaw"`
	DigestSchedule string        `envconfig:"DIGEST_SCHEDULE" default:"0 9 * * *"`
	FormTTL        time.Duration `envconfig:"FORM_TTL" default:"30m"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"voucherbot"`
	User     string `envconfig:"DB_USER" default:"voucherbot"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
}

// PaymentConfig holds payment processor settings
type PaymentConfig struct {
	StripeKey  string `envconfig:"STRIPE_API_KEY"`
	LinkFormat string `envconfig:"PAYMENT_LINK_FORMAT" default:"https://t.me/tattoo_assistant_bot/payment_%s_pln"`
}

// SMTPConfig holds outgoing mail settings
type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
}

// RedisConfig enables distributed chat locks when Addr is set
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}
	if cfg.FormTTL <= 0 {
		return nil, fmt.Errorf("FORM_TTL must be positive")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.Timezone, err)
	}

	return &cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// MailEnabled reports whether SMTP credentials are configured
func (c *Config) MailEnabled() bool {
	return c.SMTP.Username != "" && c.SMTP.Password != ""
}
