// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Matching      MatchingConfig     `mapstructure:"matching"`
	SamGov        SamGovConfig       `mapstructure:"samgov"`
	Billing       BillingConfig      `mapstructure:"billing"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Matching Engine ---

// MatchingConfig carries the scoring pipeline tunables. These are deployment
// configuration, not request parameters.
type MatchingConfig struct {
	MinScore     int `mapstructure:"min_score"`
	MaxResults   int `mapstructure:"max_results"`
	PoolCacheTTL int `mapstructure:"pool_cache_ttl"` // seconds; 0 disables the snapshot cache
}

// --- Ingestion ---

// SamGovConfig configures the SAM.gov listings feed client.
type SamGovConfig struct {
	APIKey        string `mapstructure:"api_key"`
	BaseURL       string `mapstructure:"base_url"`
	PageLimit     int    `mapstructure:"page_limit"`
	LookbackHours int    `mapstructure:"lookback_hours"`
	MaxRetries    int    `mapstructure:"max_retries"`
	Timeout       int    `mapstructure:"timeout"` // milliseconds
}

// --- Billing intake ---

type BillingConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// --- Notifications ---

type NotificationConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Region       string `mapstructure:"region"`
	FromEmail    string `mapstructure:"from_email"`
	SupportEmail string `mapstructure:"support_email"`
	TopicARN     string `mapstructure:"topic_arn"`
}

// --- Logging ---

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
