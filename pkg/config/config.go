package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the analytics pipeline
type Config struct {
	// Instagram fetch settings
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`

	// Analytics derivation settings
	Analytics AnalyticsConfig `yaml:"analytics" json:"analytics"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Retry configuration for the fetch client
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Snapshot storage settings
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// HTTP API settings
	Server ServerConfig `yaml:"server" json:"server"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// InstagramConfig holds settings for the external fetch collaborator
type InstagramConfig struct {
	SessionID    string        `yaml:"session_id" json:"session_id"`
	CSRFToken    string        `yaml:"csrf_token" json:"csrf_token"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
}

// AnalyticsConfig holds the derivation constants.
//
// WindowSize, the top-entity caps and the posting-frequency thresholds are
// preserved from the original product verbatim; they are configuration, not
// tunables with a derived rationale.
type AnalyticsConfig struct {
	// WindowSize is the number of most recent posts a report covers
	WindowSize int `yaml:"window_size" json:"window_size"`

	// TopHashtagLimit caps the topHashtags list in a report
	TopHashtagLimit int `yaml:"top_hashtag_limit" json:"top_hashtag_limit"`

	// TopMentionLimit caps the topMentions list in a report
	TopMentionLimit int `yaml:"top_mention_limit" json:"top_mention_limit"`

	// Posting-cadence classification thresholds, in posts per week
	DailyThreshold    float64 `yaml:"daily_threshold" json:"daily_threshold"`
	FrequentThreshold float64 `yaml:"frequent_threshold" json:"frequent_threshold"`
	WeeklyThreshold   float64 `yaml:"weekly_threshold" json:"weekly_threshold"`

	// RefreshWorkers bounds concurrent per-account runs in a multi-account refresh
	RefreshWorkers int `yaml:"refresh_workers" json:"refresh_workers"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// RetryConfig holds retry configuration for the fetch client
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay    time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay     time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier   float64       `yaml:"multiplier" json:"multiplier"`
	JitterFactor float64       `yaml:"jitter_factor" json:"jitter_factor"`
}

// StorageConfig holds snapshot store configuration
type StorageConfig struct {
	// Type selects the backend: memory, mongodb or postgres
	Type string `yaml:"type" json:"type"`

	MongoURI        string `yaml:"mongo_uri" json:"mongo_uri"`
	MongoDatabase   string `yaml:"mongo_database" json:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection" json:"mongo_collection"`

	PostgresDSN string `yaml:"postgres_dsn" json:"postgres_dsn"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Port         int           `yaml:"port" json:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			FetchTimeout: 30 * time.Second,
		},
		Analytics: AnalyticsConfig{
			WindowSize:        12,
			TopHashtagLimit:   10,
			TopMentionLimit:   10,
			DailyThreshold:    7,
			FrequentThreshold: 3,
			WeeklyThreshold:   1,
			RefreshWorkers:    3,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Retry: RetryConfig{
			MaxAttempts:  3,
			BaseDelay:    1 * time.Second,
			MaxDelay:     60 * time.Second,
			Multiplier:   2.0,
			JitterFactor: 0.1,
		},
		Storage: StorageConfig{
			Type:            "memory",
			MongoDatabase:   "instalytics",
			MongoCollection: "account_snapshots",
		},
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if sessionID := os.Getenv("INSTALYTICS_SESSION_ID"); sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken := os.Getenv("INSTALYTICS_CSRF_TOKEN"); csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if userAgent := os.Getenv("INSTALYTICS_USER_AGENT"); userAgent != "" {
		c.Instagram.UserAgent = userAgent
	}

	if rpm := os.Getenv("INSTALYTICS_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if window := os.Getenv("INSTALYTICS_WINDOW_SIZE"); window != "" {
		var val int
		fmt.Sscanf(window, "%d", &val)
		if val > 0 {
			c.Analytics.WindowSize = val
		}
	}

	if workers := os.Getenv("INSTALYTICS_REFRESH_WORKERS"); workers != "" {
		var val int
		fmt.Sscanf(workers, "%d", &val)
		if val > 0 {
			c.Analytics.RefreshWorkers = val
		}
	}

	if storageType := os.Getenv("INSTALYTICS_STORAGE_TYPE"); storageType != "" {
		c.Storage.Type = storageType
	}
	if mongoURI := os.Getenv("INSTALYTICS_MONGO_URI"); mongoURI != "" {
		c.Storage.MongoURI = mongoURI
	}
	if pgDSN := os.Getenv("INSTALYTICS_POSTGRES_DSN"); pgDSN != "" {
		c.Storage.PostgresDSN = pgDSN
	}

	if port := os.Getenv("INSTALYTICS_PORT"); port != "" {
		var val int
		fmt.Sscanf(port, "%d", &val)
		if val > 0 {
			c.Server.Port = val
		}
	}

	if logLevel := os.Getenv("INSTALYTICS_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".instalytics.yaml",
		".instalytics.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "instalytics", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "instalytics", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".instalytics.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Analytics.WindowSize <= 0 {
		errs = append(errs, errors.New("analytics window size must be positive"))
	}
	if c.Analytics.TopHashtagLimit <= 0 {
		errs = append(errs, errors.New("top hashtag limit must be positive"))
	}
	if c.Analytics.TopMentionLimit <= 0 {
		errs = append(errs, errors.New("top mention limit must be positive"))
	}
	if c.Analytics.RefreshWorkers <= 0 {
		errs = append(errs, errors.New("refresh workers must be positive"))
	}
	if c.Analytics.RefreshWorkers > 10 {
		errs = append(errs, errors.New("refresh workers should not exceed 10"))
	}
	if c.Analytics.DailyThreshold < c.Analytics.FrequentThreshold ||
		c.Analytics.FrequentThreshold < c.Analytics.WeeklyThreshold {
		errs = append(errs, errors.New("posting frequency thresholds must be descending"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, errors.New("max retry attempts cannot be negative"))
	}

	if c.Instagram.FetchTimeout <= 0 {
		errs = append(errs, errors.New("fetch timeout must be positive"))
	}

	validStorageTypes := map[string]bool{
		"memory": true, "mongodb": true, "postgres": true,
	}
	if !validStorageTypes[strings.ToLower(c.Storage.Type)] {
		errs = append(errs, errors.New("invalid storage type"))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, errors.New("server port must be between 1 and 65535"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if sessionID, ok := flags["session-id"].(string); ok && sessionID != "" {
		c.Instagram.SessionID = sessionID
	}
	if csrfToken, ok := flags["csrf-token"].(string); ok && csrfToken != "" {
		c.Instagram.CSRFToken = csrfToken
	}
	if window, ok := flags["window"].(int); ok && window > 0 {
		c.Analytics.WindowSize = window
	}
	if workers, ok := flags["workers"].(int); ok && workers > 0 {
		c.Analytics.RefreshWorkers = workers
	}
	if storageType, ok := flags["storage"].(string); ok && storageType != "" {
		c.Storage.Type = storageType
	}
	if port, ok := flags["port"].(int); ok && port > 0 {
		c.Server.Port = port
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: command line flags > environment variables > .env file > config file > defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".instalytics.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
