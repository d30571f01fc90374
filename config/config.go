// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration for comment reply operations.
type Config struct {
	// AccessToken is the OAuth bearer token used for YouTube API calls
	AccessToken string `json:"access_token"`
	// VideoID is the default video to operate on when none is given
	VideoID string `json:"video_id"`

	// GeminiAPIKey authenticates against the Gemini API (empty disables AI replies)
	GeminiAPIKey string `json:"gemini_api_key"`
	// GeminiModel selects the Gemini model used for reply generation
	GeminiModel string `json:"gemini_model"`

	// PollInterval is the fixed delay between watch cycles
	PollInterval time.Duration `json:"poll_interval"`
	// CallTimeout is the maximum time allowed per API call
	CallTimeout time.Duration `json:"call_timeout"`
	// SeenCapacity bounds how many handled comment IDs the watch remembers
	SeenCapacity int `json:"seen_capacity"`
	// ReplyLogPath is where reply attempts are recorded (empty disables the log)
	ReplyLogPath string `json:"reply_log_path"`

	// MaxRetries is the maximum number of retries for failed fetches
	MaxRetries int `json:"max_retries"`
	// InitialBackoff is the initial backoff duration for retries
	InitialBackoff time.Duration `json:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for retries
	MaxBackoff time.Duration `json:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1)
	BackoffMultiplier float64 `json:"backoff_multiplier"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		GeminiModel:       "gemini-2.5-flash",
		PollInterval:      60 * time.Second,
		CallTimeout:       30 * time.Second,
		SeenCapacity:      10000,
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Override with environment variables
	cfg.loadFromEnv()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytreply.json in current directory or home directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytreply.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytreply", "ytreply.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTREPLY_ACCESS_TOKEN"); v != "" {
		c.AccessToken = v
	}
	if v := os.Getenv("YTREPLY_VIDEO_ID"); v != "" {
		c.VideoID = v
	}
	if v := os.Getenv("YTREPLY_GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("YTREPLY_GEMINI_MODEL"); v != "" {
		c.GeminiModel = v
	}
	if v := os.Getenv("YTREPLY_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PollInterval = d
		}
	}
	if v := os.Getenv("YTREPLY_CALL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.CallTimeout = d
		}
	}
	if v := os.Getenv("YTREPLY_SEEN_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SeenCapacity = n
		}
	}
	if v := os.Getenv("YTREPLY_REPLY_LOG_PATH"); v != "" {
		c.ReplyLogPath = v
	}
	if v := os.Getenv("YTREPLY_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTREPLY_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("YTREPLY_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("call_timeout must be positive")
	}
	if c.SeenCapacity <= 0 {
		return fmt.Errorf("seen_capacity must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff <= 0 {
		return fmt.Errorf("max_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	return nil
}
