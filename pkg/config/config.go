package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Zendesk  ZendeskConfig
	LLM      LLMConfig
	Meeting  MeetingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"erp_issue_hub"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration. An empty Addr selects the in-memory cache.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StorageConfig holds object storage configuration for the minutes archive
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"erp-issue-hub"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// ZendeskConfig holds Zendesk API configuration
type ZendeskConfig struct {
	Subdomain         string        `envconfig:"ZENDESK_SUBDOMAIN"`
	APIToken          string        `envconfig:"ZENDESK_API_TOKEN"`
	OAuthClientID     string        `envconfig:"ZENDESK_OAUTH_CLIENT_ID"`
	OAuthClientSecret string        `envconfig:"ZENDESK_OAUTH_CLIENT_SECRET"`
	BaseURL           string        `envconfig:"ZENDESK_BASE_URL"`
	WebhookSecret     string        `envconfig:"ZENDESK_WEBHOOK_SECRET"`
	SyncQuery         string        `envconfig:"ZENDESK_SYNC_QUERY" default:"type:ticket status<solved"`
	CacheTTL          time.Duration `envconfig:"ZENDESK_CACHE_TTL" default:"1h"`
	Timeout           time.Duration `envconfig:"ZENDESK_TIMEOUT" default:"30s"`
}

// LLMConfig holds the chat-completion API configuration
type LLMConfig struct {
	APIKey  string        `envconfig:"LLM_API_KEY"`
	BaseURL string        `envconfig:"LLM_BASE_URL" default:"https://api.groq.com"`
	Model   string        `envconfig:"LLM_MODEL" default:"llama-3.3-70b-versatile"`
	Timeout time.Duration `envconfig:"LLM_TIMEOUT" default:"30s"`
}

// MeetingConfig holds meeting lifecycle thresholds
type MeetingConfig struct {
	InactivityTimeout time.Duration `envconfig:"MEETING_INACTIVITY_TIMEOUT" default:"30m"`
	MaxDuration       time.Duration `envconfig:"MEETING_MAX_DURATION" default:"3h"`
	WatchdogInterval  time.Duration `envconfig:"MEETING_WATCHDOG_INTERVAL" default:"1m"`
	DefaultInterval   time.Duration `envconfig:"MEETING_DEFAULT_INTERVAL" default:"168h"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	sections := []struct {
		name   string
		target interface{}
	}{
		{"server", &config.Server},
		{"database", &config.Database},
		{"redis", &config.Redis},
		{"storage", &config.Storage},
		{"zendesk", &config.Zendesk},
		{"llm", &config.LLM},
		{"meeting", &config.Meeting},
	}
	for _, s := range sections {
		if err := envconfig.Process("", s.target); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", s.name, err)
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Meeting.InactivityTimeout <= 0 {
		return fmt.Errorf("MEETING_INACTIVITY_TIMEOUT must be positive")
	}
	if c.Meeting.MaxDuration <= 0 {
		return fmt.Errorf("MEETING_MAX_DURATION must be positive")
	}
	if c.Meeting.WatchdogInterval <= 0 {
		return fmt.Errorf("MEETING_WATCHDOG_INTERVAL must be positive")
	}
	if c.Zendesk.OAuthClientID != "" && c.Zendesk.OAuthClientSecret == "" {
		return fmt.Errorf("ZENDESK_OAUTH_CLIENT_SECRET is required when ZENDESK_OAUTH_CLIENT_ID is set")
	}
	return nil
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Enabled reports whether Redis should back the cache
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// Enabled reports whether the minutes archive is configured
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}

// Enabled reports whether Zendesk calls can be made
func (z ZendeskConfig) Enabled() bool {
	if z.Subdomain == "" && z.BaseURL == "" {
		return false
	}
	return z.APIToken != "" || z.OAuthClientID != ""
}

// APIBaseURL returns the Zendesk API root, honoring an explicit override
func (z ZendeskConfig) APIBaseURL() string {
	if z.BaseURL != "" {
		return z.BaseURL
	}
	return fmt.Sprintf("https://%s.zendesk.com", z.Subdomain)
}

// Enabled reports whether the LLM key is present
func (l LLMConfig) Enabled() bool {
	return l.APIKey != ""
}
