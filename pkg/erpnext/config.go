package erpnext

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the credentials and connection settings of one client.
type Config struct {
	Username string
	Password string
	BaseURL  string

	// Timeout bounds each HTTP round trip. Zero keeps the 30s default.
	Timeout time.Duration
	// MaxRetries is the number of retries for requests that fail before a
	// response is received. Zero means a failed call surfaces immediately.
	MaxRetries int
	// ReuseSession logs in once and logs in again only after a request is
	// answered with 401. When false every operation logs in first.
	ReuseSession bool
}

func LoadConfig() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Username: os.Getenv("ERPNEXT_USERNAME"),
		Password: os.Getenv("ERPNEXT_PASSWORD"),
		BaseURL:  os.Getenv("ERPNEXT_BASE_URL"),
	}

	if v := os.Getenv("ERPNEXT_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("ERPNEXT_TIMEOUT is invalid: %w", err)
		}
		cfg.Timeout = timeout
	}
	if v := os.Getenv("ERPNEXT_MAX_RETRIES"); v != "" {
		retries, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("ERPNEXT_MAX_RETRIES is invalid: %w", err)
		}
		cfg.MaxRetries = retries
	}
	if v := os.Getenv("ERPNEXT_REUSE_SESSION"); v != "" {
		reuse, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("ERPNEXT_REUSE_SESSION is invalid: %w", err)
		}
		cfg.ReuseSession = reuse
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("ERPNEXT_USERNAME is required")
	}
	if c.Password == "" {
		return fmt.Errorf("ERPNEXT_PASSWORD is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("ERPNEXT_BASE_URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ERPNEXT_BASE_URL must be an absolute URL, got %q", c.BaseURL)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("ERPNEXT_MAX_RETRIES must not be negative")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("ERPNEXT_TIMEOUT must not be negative")
	}
	return nil
}
