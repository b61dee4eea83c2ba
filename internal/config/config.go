package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config holds all application settings.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Community CommunityConfig
	SendFox   SendFoxConfig
	Heartbeat HeartbeatConfig
	Email     EmailConfig
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds the unified Redis connection settings.
// Supported modes: single, sentinel, cluster. Redis is optional; when no
// address is configured the rate limiter is disabled.
type RedisConfig struct {
	// Mode: Redis operating mode ("single", "sentinel", "cluster").
	// Defaults to "single".
	Mode string `mapstructure:"mode"`

	// Addrs: list of Redis addresses (host:port), used by all modes.
	Addrs []string `mapstructure:"addrs"`

	// Addr: alternative single-address form for "single" mode.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Redis master name (sentinel mode only).
	MasterName string `mapstructure:"master_name"`

	// MaxRetries: maximum reconnect attempts (-1 means unlimited).
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff: minimum retry interval in milliseconds.
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`

	// MaxRetryBackoff: maximum retry interval in milliseconds.
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// CommunityConfig holds the public-facing community settings.
type CommunityConfig struct {
	// BaseURL is the fully-qualified public base used to build share
	// links.
	BaseURL string `mapstructure:"base_url"`

	PrivacyPolicyURL string `mapstructure:"privacy_policy_url"`
	DataRequestURL   string `mapstructure:"data_request_url"`

	// AllowedOrigins overrides the built-in CORS allow-list.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SendFoxConfig holds the mailing-list integration settings. Optional:
// an empty FormURL disables the sync.
type SendFoxConfig struct {
	FormURL string `mapstructure:"form_url"`
}

// HeartbeatConfig holds the community-platform invite settings.
// Optional: missing credentials leave invitations pending.
type HeartbeatConfig struct {
	APIURL      string `mapstructure:"api_url"`
	APIToken    string `mapstructure:"api_token"`
	CommunityID string `mapstructure:"community_id"`
}

// EmailConfig holds the transactional email settings. Optional: an
// empty APIKey disables notices.
type EmailConfig struct {
	APIKey string `mapstructure:"api_key"`
	From   string `mapstructure:"from"`
}

// PostgresConnectionString builds the PostgreSQL DSN.
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// IsConfigured reports whether any Redis address was provided.
func (r *RedisConfig) IsConfigured() bool {
	return len(r.Addrs) > 0 || r.Addr != ""
}

// Load reads the configuration from an optional file plus environment
// variables. Env vars are bound explicitly per key so the mapping stays
// auditable.
func Load(configPath string) (*Config, error) {
	vip := viper.New() // fresh instance, no global viper state

	// Defaults
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 15)
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("community.base_url", "https://crm.blkoutuk.cloud")
	vip.SetDefault("community.privacy_policy_url", "https://blkoutuk.com/privacy")
	vip.SetDefault("community.data_request_url", "https://blkoutuk.com/data-request")

	// Database section
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	// Redis section
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	// Server section
	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("server.readtimeout", "SERVER_READTIMEOUT")
	vip.BindEnv("server.writetimeout", "SERVER_WRITETIMEOUT")

	// Community section
	vip.BindEnv("community.base_url", "COMMUNITY_BASE_URL")
	vip.BindEnv("community.privacy_policy_url", "COMMUNITY_PRIVACY_POLICY_URL")
	vip.BindEnv("community.data_request_url", "COMMUNITY_DATA_REQUEST_URL")
	vip.BindEnv("community.allowed_origins", "COMMUNITY_ALLOWED_ORIGINS")

	// External integrations (all optional)
	vip.BindEnv("sendfox.form_url", "SENDFOX_FORM_URL")
	vip.BindEnv("heartbeat.api_url", "HEARTBEAT_API_URL")
	vip.BindEnv("heartbeat.api_token", "HEARTBEAT_API_TOKEN")
	vip.BindEnv("heartbeat.community_id", "HEARTBEAT_COMMUNITY_ID")
	vip.BindEnv("email.api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Config file '%s' not found, using environment variables/defaults.", configPath)
			} else {
				log.Printf("Warning: could not read config file '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Config logging (debug mode only)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Loaded configuration ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Configured: %t", cfg.Redis.IsConfigured())
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Community Base URL: %s", cfg.Community.BaseURL)
		log.Printf("SendFox Configured: %t", cfg.SendFox.FormURL != "")
		log.Printf("Heartbeat Configured: %t", cfg.Heartbeat.APIToken != "" && cfg.Heartbeat.CommunityID != "")
		log.Printf("Email Configured: %t", cfg.Email.APIKey != "")
		log.Printf("----------------------------")
	}

	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" && cfg.Database.Password == "" {
		return nil, fmt.Errorf("database password is required in production mode (check DATABASE_PASSWORD env var)")
	}

	return &cfg, nil
}
